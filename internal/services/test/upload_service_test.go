package services_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bionicotaku/lingo-services-media/internal/models/events"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/google/uuid"
)

func newUploadService(catalog *catalogStub, outbox *outboxStub, blobs *blobStoreStub, thumbs *thumbnailerStub) *services.UploadService {
	return services.NewUploadService(catalog, outbox, blobs, thumbs, noopTxManager{}, testLogger())
}

func validUploadInput(caller services.Principal) services.UploadInput {
	return services.UploadInput{
		File:             bytes.NewReader([]byte("movie bytes")),
		SizeBytes:        11,
		OriginalFilename: "holiday.mp4",
		ContentType:      "video/mp4",
		Title:            "Holiday",
		Caller:           caller,
	}
}

func TestUploadService_Success(t *testing.T) {
	catalog := &catalogStub{}
	outbox := &outboxStub{}
	blobs := &blobStoreStub{}
	thumbs := &thumbnailerStub{}
	svc := newUploadService(catalog, outbox, blobs, thumbs)

	caller := authedCaller()
	video, err := svc.Upload(context.Background(), validUploadInput(caller))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if video.Title != "Holiday" {
		t.Fatalf("unexpected title: %s", video.Title)
	}
	if video.UploaderName != caller.Username {
		t.Fatalf("unexpected uploader: %s", video.UploaderName)
	}
	if !video.HasThumbnail {
		t.Fatal("expected thumbnail on successful generation")
	}
	if catalog.created == nil {
		t.Fatal("expected catalog insert")
	}
	if catalog.created.UploaderID != caller.UserID {
		t.Fatalf("unexpected uploader id: %s", catalog.created.UploaderID)
	}
	if len(outbox.messages) != 1 {
		t.Fatalf("expected one outbox message, got %d", len(outbox.messages))
	}
	msg := outbox.messages[0]
	if msg.EventType != events.TypeVideoUploaded {
		t.Fatalf("unexpected event type: %s", msg.EventType)
	}
	if msg.AggregateID != video.VideoID {
		t.Fatalf("event aggregate %s != video %s", msg.AggregateID, video.VideoID)
	}
}

func TestUploadService_AnonymousRejected(t *testing.T) {
	blobs := &blobStoreStub{}
	svc := newUploadService(&catalogStub{}, &outboxStub{}, blobs, &thumbnailerStub{})

	_, err := svc.Upload(context.Background(), validUploadInput(services.Anonymous()))
	if err == nil {
		t.Fatal("expected error")
	}
	if kerr := kerrors.FromError(err); kerr == nil || kerr.Reason != services.ReasonUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if blobs.calls != 0 {
		t.Fatal("no blob should be stored for anonymous callers")
	}
}

func TestUploadService_ValidationOrder(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*services.UploadInput)
		message string
	}{
		{
			name: "missing file",
			mutate: func(in *services.UploadInput) {
				in.File = nil
				in.Title = ""
			},
			message: "file is required",
		},
		{
			name: "blank title",
			mutate: func(in *services.UploadInput) {
				in.Title = "   "
			},
			message: "title is required",
		},
		{
			name: "title too long",
			mutate: func(in *services.UploadInput) {
				in.Title = strings.Repeat("x", 105)
			},
			message: "title must be at most 100 characters",
		},
		{
			name: "description too long",
			mutate: func(in *services.UploadInput) {
				long := strings.Repeat("d", 501)
				in.Description = &long
			},
			message: "description must be at most 500 characters",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blobs := &blobStoreStub{}
			svc := newUploadService(&catalogStub{}, &outboxStub{}, blobs, &thumbnailerStub{})

			input := validUploadInput(authedCaller())
			tc.mutate(&input)

			_, err := svc.Upload(context.Background(), input)
			if err == nil {
				t.Fatal("expected error")
			}
			kerr := kerrors.FromError(err)
			if kerr == nil || kerr.Reason != services.ReasonInvalidInput {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if kerr.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, kerr.Message)
			}
			if blobs.calls != 0 {
				t.Fatal("validation failure must not touch the blob store")
			}
		})
	}
}

func TestUploadService_TitleBoundary(t *testing.T) {
	svc := newUploadService(&catalogStub{}, &outboxStub{}, &blobStoreStub{}, &thumbnailerStub{})

	input := validUploadInput(authedCaller())
	input.Title = strings.Repeat("t", 100)

	video, err := svc.Upload(context.Background(), input)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(video.Title) != 100 {
		t.Fatalf("expected 100-char title, got %d", len(video.Title))
	}
}

func TestUploadService_ThumbnailFailureNonFatal(t *testing.T) {
	catalog := &catalogStub{}
	outbox := &outboxStub{}
	thumbs := &thumbnailerStub{err: errors.New("ffmpeg exit 1")}
	svc := newUploadService(catalog, outbox, &blobStoreStub{}, thumbs)

	video, err := svc.Upload(context.Background(), validUploadInput(authedCaller()))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if video.HasThumbnail {
		t.Fatal("expected no thumbnail after generation failure")
	}
	if catalog.created == nil || catalog.created.Thumbnail != nil {
		t.Fatal("expected record persisted without thumbnail")
	}
	if len(outbox.messages) != 1 {
		t.Fatal("event must still be enqueued")
	}
}

func TestUploadService_BlobStoreFailure(t *testing.T) {
	catalog := &catalogStub{}
	blobs := &blobStoreStub{storeErr: errors.New("disk full")}
	svc := newUploadService(catalog, &outboxStub{}, blobs, &thumbnailerStub{})

	_, err := svc.Upload(context.Background(), validUploadInput(authedCaller()))
	if err == nil {
		t.Fatal("expected error")
	}
	if kerr := kerrors.FromError(err); kerr == nil || kerr.Reason != services.ReasonStorageUnavailable {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if catalog.created != nil {
		t.Fatal("no record may be created when the blob write fails")
	}
}

func TestUploadService_PersistFailure(t *testing.T) {
	catalog := &catalogStub{createErr: errors.New("boom")}
	svc := newUploadService(catalog, &outboxStub{}, &blobStoreStub{}, &thumbnailerStub{})

	_, err := svc.Upload(context.Background(), validUploadInput(authedCaller()))
	if err == nil {
		t.Fatal("expected error")
	}
	if kerr := kerrors.FromError(err); kerr == nil || kerr.Reason != services.ReasonSaveVideoFailed {
		t.Fatalf("expected save failure, got %v", err)
	}
}

func TestUploadService_OutboxFailureAbortsTx(t *testing.T) {
	outbox := &outboxStub{err: errors.New("insert failed")}
	svc := newUploadService(&catalogStub{}, outbox, &blobStoreStub{}, &thumbnailerStub{})

	_, err := svc.Upload(context.Background(), validUploadInput(authedCaller()))
	if err == nil {
		t.Fatal("expected error")
	}
	if kerr := kerrors.FromError(err); kerr == nil || kerr.Reason != services.ReasonSaveVideoFailed {
		t.Fatalf("expected save failure, got %v", err)
	}
}

func TestUploadService_GeneratedVideoID(t *testing.T) {
	catalog := &catalogStub{}
	svc := newUploadService(catalog, &outboxStub{}, &blobStoreStub{}, &thumbnailerStub{})

	first, err := svc.Upload(context.Background(), validUploadInput(authedCaller()))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	second, err := svc.Upload(context.Background(), validUploadInput(authedCaller()))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if first.VideoID == uuid.Nil || first.VideoID == second.VideoID {
		t.Fatalf("expected fresh ids, got %s and %s", first.VideoID, second.VideoID)
	}
}
