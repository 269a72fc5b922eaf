package transcoder_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/transcoder"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts require a unix shell")
	}
}

// writeScript drops an executable shell script acting as the media tool.
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-ffmpeg")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func videoFixture(t *testing.T, dir string) po.StoredFile {
	t.Helper()
	path := filepath.Join(dir, "abc-clip.mp4")
	if err := os.WriteFile(path, []byte("video bytes"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return po.StoredFile{
		OriginalFilename: "clip.mp4",
		StoredFilename:   "abc-clip.mp4",
		ContentType:      "video/mp4",
		SizeBytes:        11,
		FilePath:         path,
	}
}

func newThumbnailer(binary string) *transcoder.FFmpeg {
	return transcoder.NewFFmpeg(transcoder.Config{
		Binary:  binary,
		Timeout: 5 * time.Second,
	}, log.NewStdLogger(io.Discard))
}

func TestThumbStoredName(t *testing.T) {
	got := transcoder.ThumbStoredName("abc-clip.mp4")
	if got != "thumb-abc-clip.mp4.jpg" {
		t.Fatalf("unexpected thumb name: %s", got)
	}
}

func TestGenerateSuccess(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	video := videoFixture(t, dir)

	// The last argument is the output path; write a marker file there the
	// same way the real tool writes the frame.
	script := writeScript(t, dir, `eval "out=\${$#}"
printf 'jpeg' > "$out"`)

	thumb, err := newThumbnailer(script).Generate(context.Background(), video)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if thumb.StoredFilename != "thumb-abc-clip.mp4.jpg" {
		t.Fatalf("unexpected stored name: %s", thumb.StoredFilename)
	}
	if thumb.OriginalFilename != "thumbnail.jpg" {
		t.Fatalf("unexpected original name: %s", thumb.OriginalFilename)
	}
	if thumb.ContentType != "image/jpeg" {
		t.Fatalf("unexpected content type: %s", thumb.ContentType)
	}
	if thumb.SizeBytes != 4 {
		t.Fatalf("unexpected size: %d", thumb.SizeBytes)
	}
	if filepath.Dir(thumb.FilePath) != dir {
		t.Fatalf("thumbnail must sit next to the source, got %s", thumb.FilePath)
	}
}

func TestGenerateNonZeroExit(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	video := videoFixture(t, dir)

	script := writeScript(t, dir, `echo "decode error" >&2
exit 1`)

	if _, err := newThumbnailer(script).Generate(context.Background(), video); err == nil {
		t.Fatal("expected error on non-zero exit")
	}
	if _, err := os.Stat(filepath.Join(dir, "thumb-abc-clip.mp4.jpg")); !os.IsNotExist(err) {
		t.Fatal("no thumbnail file may remain after a failed run")
	}
}

func TestGenerateRemovesPartialOutput(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	video := videoFixture(t, dir)

	// Simulates a tool that wrote partial output before failing.
	script := writeScript(t, dir, `eval "out=\${$#}"
printf 'part' > "$out"
exit 1`)

	if _, err := newThumbnailer(script).Generate(context.Background(), video); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(dir, "thumb-abc-clip.mp4.jpg")); !os.IsNotExist(err) {
		t.Fatal("partial output must be removed")
	}
}

func TestGenerateZeroExitMissingOutput(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	video := videoFixture(t, dir)

	script := writeScript(t, dir, "exit 0")

	if _, err := newThumbnailer(script).Generate(context.Background(), video); err == nil {
		t.Fatal("expected error when the tool exits 0 without output")
	}
}

func TestGenerateTimeout(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	video := videoFixture(t, dir)

	script := writeScript(t, dir, "sleep 10")

	tn := transcoder.NewFFmpeg(transcoder.Config{
		Binary:  script,
		Timeout: 100 * time.Millisecond,
	}, log.NewStdLogger(io.Discard))

	start := time.Now()
	_, err := tn.Generate(context.Background(), video)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout did not fire, took %v", elapsed)
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	video := videoFixture(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newThumbnailer(writeScript(t, dir, "exit 0")).Generate(ctx, video); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
