package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// VideoQueryService serves the read model: record detail and the
// visibility-filtered listing.
type VideoQueryService struct {
	catalog   VideoCatalog
	txManager txmanager.Manager
	log       *log.Helper
}

// NewVideoQueryService constructs the query service.
func NewVideoQueryService(catalog VideoCatalog, tx txmanager.Manager, logger log.Logger) *VideoQueryService {
	return &VideoQueryService{
		catalog:   catalog,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// GetVideo returns one record view, enforcing visibility.
func (s *VideoQueryService) GetVideo(ctx context.Context, videoID uuid.UUID, caller Principal) (*vo.Video, error) {
	var video *po.Video
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		video, repoErr = s.catalog.FindByID(txCtx, sess, videoID)
		return repoErr
	})
	if err != nil {
		return nil, s.mapQueryError(ctx, err, "get video detail")
	}

	if video.IsPrivate && (caller.IsAnonymous() || caller.UserID != video.UploaderID) {
		return nil, ErrPrivateVideoAccessDenied
	}
	return vo.NewVideo(video), nil
}

// List returns visible record summaries, newest first. A non-blank search
// term restricts to title/description matches, case-insensitively.
func (s *VideoQueryService) List(ctx context.Context, searchTerm string, caller Principal) ([]*vo.Video, error) {
	term := strings.TrimSpace(searchTerm)
	callerID := caller.userIDOrNil()

	var videos []*po.Video
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		if term == "" {
			videos, repoErr = s.catalog.FindVisible(txCtx, sess, callerID)
		} else {
			videos, repoErr = s.catalog.SearchVisible(txCtx, sess, term, callerID)
		}
		return repoErr
	})
	if err != nil {
		return nil, s.mapQueryError(ctx, err, "list videos")
	}
	return vo.NewVideoList(videos), nil
}

func (s *VideoQueryService) mapQueryError(ctx context.Context, err error, op string) error {
	if stderrors.Is(err, repositories.ErrVideoNotFound) {
		return ErrVideoNotFound
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		s.log.WithContext(ctx).Warnf("%s timeout", op)
		return kerrors.GatewayTimeout(ReasonQueryTimeout, "query timeout")
	}
	s.log.WithContext(ctx).Errorf("%s failed: err=%v", op, err)
	return kerrors.InternalServer(ReasonQueryVideoFailed, "failed to query videos").WithCause(err)
}
