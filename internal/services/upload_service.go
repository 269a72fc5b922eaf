package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bionicotaku/lingo-services-media/internal/models/events"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

// UploadInput carries one upload request into the pipeline.
type UploadInput struct {
	File             io.Reader
	SizeBytes        int64
	OriginalFilename string
	ContentType      string
	Title            string
	Description      *string
	Private          bool
	Caller           Principal
}

// UploadService runs the upload pipeline: validate, store the video blob,
// derive a thumbnail best-effort, then persist the catalog record and its
// domain event in one transaction.
type UploadService struct {
	catalog   VideoCatalog
	outbox    OutboxWriter
	blobs     BlobStore
	thumbs    ThumbnailGenerator
	txManager txmanager.Manager
	log       *log.Helper
}

// NewUploadService constructs the upload pipeline.
func NewUploadService(catalog VideoCatalog, outbox OutboxWriter, blobs BlobStore, thumbs ThumbnailGenerator, tx txmanager.Manager, logger log.Logger) *UploadService {
	return &UploadService{
		catalog:   catalog,
		outbox:    outbox,
		blobs:     blobs,
		thumbs:    thumbs,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// Upload executes the pipeline for an authenticated caller. Validation runs
// before any side effect; the first failing rule wins.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*vo.Video, error) {
	if input.Caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	title, err := validateUploadInput(input)
	if err != nil {
		return nil, err
	}

	storedVideo, err := s.blobs.Store(ctx, input.File, input.OriginalFilename, input.ContentType, input.SizeBytes)
	if err != nil {
		return nil, mapBlobError(err)
	}

	// Best-effort: a failed thumbnail never fails the upload.
	thumbnail := s.tryGenerateThumbnail(ctx, *storedVideo)

	createInput := repositories.CreateVideoInput{
		VideoID:      uuid.New(),
		Title:        title,
		Description:  input.Description,
		IsPrivate:    input.Private,
		UploaderID:   input.Caller.UserID,
		UploaderName: input.Caller.Username,
		VideoFile:    *storedVideo,
		Thumbnail:    thumbnail,
	}

	var created *po.Video
	err = s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		video, repoErr := s.catalog.Create(txCtx, sess, createInput)
		if repoErr != nil {
			return repoErr
		}

		event, buildErr := events.NewVideoUploadedEvent(video, uuid.New(), video.CreatedAt)
		if buildErr != nil {
			return fmt.Errorf("build video.uploaded event: %w", buildErr)
		}
		if err := s.outbox.Enqueue(txCtx, sess, repositories.OutboxMessage{
			EventID:       event.EventID,
			AggregateType: event.AggregateType,
			AggregateID:   event.AggregateID,
			EventType:     event.EventType,
			Payload:       event.Payload,
			OccurredAt:    event.OccurredAt,
		}); err != nil {
			return err
		}

		created = video
		return nil
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("persist upload failed: stored=%s err=%v", storedVideo.StoredFilename, err)
		return nil, kerrors.InternalServer(ReasonSaveVideoFailed, "failed to save video").WithCause(err)
	}

	s.log.WithContext(ctx).Infof("upload complete: video_id=%s uploader=%s size=%d thumbnail=%v",
		created.VideoID, input.Caller.UserID, storedVideo.SizeBytes, created.HasThumbnail())
	return vo.NewVideo(created), nil
}

// validateUploadInput applies the request rules in contract order: file,
// then title, then description. It returns the trimmed title.
func validateUploadInput(input UploadInput) (string, error) {
	if input.File == nil || input.SizeBytes == 0 {
		return "", kerrors.BadRequest(ReasonInvalidInput, "file is required")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", kerrors.BadRequest(ReasonInvalidInput, "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", kerrors.BadRequest(ReasonInvalidInput, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	if input.Description != nil && utf8.RuneCountInString(*input.Description) > maxDescriptionLength {
		return "", kerrors.BadRequest(ReasonInvalidInput, fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	return title, nil
}

func (s *UploadService) tryGenerateThumbnail(ctx context.Context, video po.StoredFile) *po.StoredFile {
	start := time.Now()
	thumb, err := s.thumbs.Generate(ctx, video)
	if err != nil {
		s.log.WithContext(ctx).Warnf("thumbnail generation failed: stored=%s elapsed=%s err=%v",
			video.StoredFilename, time.Since(start).Round(time.Millisecond), err)
		return nil
	}
	return thumb
}
