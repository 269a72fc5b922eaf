// Package transcoder derives still images from stored videos by shelling out
// to an external media tool. Generation is best-effort: the upload pipeline
// treats every error from this package as "no thumbnail", never as a reason
// to fail the upload.
package transcoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/semaphore"
)

// Thumbnailer extracts a single frame from a stored video. Implementations
// return the new image blob descriptor, or an error when no image could be
// produced.
type Thumbnailer interface {
	Generate(ctx context.Context, video po.StoredFile) (*po.StoredFile, error)
}

const (
	defaultBinary        = "ffmpeg"
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 2

	thumbPrefix    = "thumb-"
	thumbExtension = ".jpg"
	seekOffset     = "00:00:01"
)

// Config tunes the external tool invocation.
type Config struct {
	Binary        string
	Timeout       time.Duration
	MaxConcurrent int64
}

// FFmpeg runs the ffmpeg binary to grab one frame at a fixed offset. A
// weighted semaphore caps concurrent child processes so upload bursts cannot
// exhaust the host, and each run carries its own timeout so a hung process
// cannot hold a request worker indefinitely.
type FFmpeg struct {
	binary  string
	timeout time.Duration
	sem     *semaphore.Weighted
	log     *log.Helper
}

// NewFFmpeg builds the ffmpeg-backed thumbnailer, filling config defaults.
func NewFFmpeg(cfg Config, logger log.Logger) *FFmpeg {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	return &FFmpeg{
		binary:  cfg.Binary,
		timeout: cfg.Timeout,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
		log:     log.NewHelper(logger),
	}
}

// ThumbStoredName returns the deterministic stored name of the thumbnail
// derived from a video's stored name.
func ThumbStoredName(videoStoredName string) string {
	return thumbPrefix + videoStoredName + thumbExtension
}

// Generate extracts a frame one second into the video and writes it next to
// the source blob. Success requires both a zero exit code and the output
// file existing afterwards.
func (t *FFmpeg) Generate(ctx context.Context, video po.StoredFile) (*po.StoredFile, error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire transcode slot: %w", err)
	}
	defer t.sem.Release(1)

	thumbStored := ThumbStoredName(video.StoredFilename)
	thumbPath := filepath.Join(filepath.Dir(video.FilePath), thumbStored)

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, t.binary,
		"-y",
		"-ss", seekOffset,
		"-i", video.FilePath,
		"-frames:v", "1",
		thumbPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Remove whatever partial output the tool may have left behind.
		if rmErr := os.Remove(thumbPath); rmErr != nil && !os.IsNotExist(rmErr) {
			t.log.WithContext(ctx).Warnf("cleanup partial thumbnail failed: path=%s err=%v", thumbPath, rmErr)
		}
		return nil, fmt.Errorf("%s failed: %w (output: %s)", t.binary, err, truncateOutput(output))
	}

	info, err := os.Stat(thumbPath)
	if err != nil {
		return nil, fmt.Errorf("%s exited 0 but produced no output at %s: %w", t.binary, thumbPath, err)
	}

	t.log.WithContext(ctx).Debugf("thumbnail generated: name=%s size=%d", thumbStored, info.Size())
	return &po.StoredFile{
		OriginalFilename: "thumbnail" + thumbExtension,
		StoredFilename:   thumbStored,
		ContentType:      "image/jpeg",
		SizeBytes:        info.Size(),
		FilePath:         thumbPath,
	}, nil
}

func truncateOutput(out []byte) string {
	const limit = 512
	if len(out) > limit {
		out = out[:limit]
	}
	return string(out)
}
