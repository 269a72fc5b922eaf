package services

import (
	"context"
	stderrors "errors"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// Download bundles an open blob handle with the response metadata the
// boundary needs. The suggested filename is always the original upload name;
// stored names are never exposed to callers.
type Download struct {
	Resource    BlobResource
	ContentType string
	Filename    string
}

// DownloadService streams video and thumbnail blobs back to callers,
// enforcing record visibility before touching the blob store.
type DownloadService struct {
	catalog   VideoCatalog
	blobs     BlobStore
	txManager txmanager.Manager
	log       *log.Helper
}

// NewDownloadService constructs the download service.
func NewDownloadService(catalog VideoCatalog, blobs BlobStore, tx txmanager.Manager, logger log.Logger) *DownloadService {
	return &DownloadService{
		catalog:   catalog,
		blobs:     blobs,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// OpenVideo resolves the primary blob of a visible record. The caller owns
// the returned resource and must close it on every exit path.
func (s *DownloadService) OpenVideo(ctx context.Context, videoID uuid.UUID, caller Principal) (*Download, error) {
	video, err := s.loadVisible(ctx, videoID, caller)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, video.VideoFile)
}

// OpenThumbnail resolves the thumbnail blob of a visible record. Records
// whose best-effort generation failed have no thumbnail and yield NotFound.
func (s *DownloadService) OpenThumbnail(ctx context.Context, videoID uuid.UUID, caller Principal) (*Download, error) {
	video, err := s.loadVisible(ctx, videoID, caller)
	if err != nil {
		return nil, err
	}
	if !video.HasThumbnail() {
		return nil, ErrThumbnailNotFound
	}
	return s.open(ctx, *video.ThumbnailFile)
}

// loadVisible loads the record and applies the privacy rule: private records
// are visible only to their uploader, public records to everyone.
func (s *DownloadService) loadVisible(ctx context.Context, videoID uuid.UUID, caller Principal) (*po.Video, error) {
	var video *po.Video
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		video, repoErr = s.catalog.FindByID(txCtx, sess, videoID)
		return repoErr
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.WithContext(ctx).Errorf("load video failed: video_id=%s err=%v", videoID, err)
		return nil, kerrors.InternalServer(ReasonQueryVideoFailed, "failed to query video").WithCause(err)
	}

	if video.IsPrivate && (caller.IsAnonymous() || caller.UserID != video.UploaderID) {
		return nil, ErrPrivateVideoAccessDenied
	}
	return video, nil
}

func (s *DownloadService) open(ctx context.Context, file po.StoredFile) (*Download, error) {
	resource, err := s.blobs.Resolve(file.StoredFilename)
	if err != nil {
		s.log.WithContext(ctx).Errorf("resolve blob failed: stored=%s err=%v", file.StoredFilename, err)
		return nil, mapBlobError(err)
	}
	return &Download{
		Resource:    resource,
		ContentType: file.ContentType,
		Filename:    file.OriginalFilename,
	}, nil
}
