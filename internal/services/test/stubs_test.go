package services_test

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/blobstore"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type catalogStub struct {
	created   *repositories.CreateVideoInput
	createErr error
	videos    map[uuid.UUID]*po.Video
	visible   []*po.Video
	searched  string
	findCalls int
}

func (s *catalogStub) Create(_ context.Context, _ txmanager.Session, input repositories.CreateVideoInput) (*po.Video, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &input
	video := &po.Video{
		VideoID:       input.VideoID,
		Seq:           1,
		Title:         input.Title,
		Description:   input.Description,
		IsPrivate:     input.IsPrivate,
		UploaderID:    input.UploaderID,
		UploaderName:  input.UploaderName,
		VideoFile:     input.VideoFile,
		ThumbnailFile: input.Thumbnail,
		CreatedAt:     time.Now().UTC(),
	}
	return video, nil
}

func (s *catalogStub) FindByID(_ context.Context, _ txmanager.Session, videoID uuid.UUID) (*po.Video, error) {
	s.findCalls++
	if video, ok := s.videos[videoID]; ok {
		return video, nil
	}
	return nil, repositories.ErrVideoNotFound
}

func (s *catalogStub) FindVisible(_ context.Context, _ txmanager.Session, _ *uuid.UUID) ([]*po.Video, error) {
	return s.visible, nil
}

func (s *catalogStub) SearchVisible(_ context.Context, _ txmanager.Session, term string, _ *uuid.UUID) ([]*po.Video, error) {
	s.searched = term
	return s.visible, nil
}

type outboxStub struct {
	messages []repositories.OutboxMessage
	err      error
}

func (s *outboxStub) Enqueue(_ context.Context, _ txmanager.Session, msg repositories.OutboxMessage) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type blobStoreStub struct {
	stored    *po.StoredFile
	storeErr  error
	calls     int
	resources map[string]*blobResourceStub
}

func (s *blobStoreStub) Store(_ context.Context, src io.Reader, originalName, contentType string, sizeHint int64) (*po.StoredFile, error) {
	s.calls++
	if s.storeErr != nil {
		return nil, s.storeErr
	}
	if s.stored != nil {
		return s.stored, nil
	}
	return &po.StoredFile{
		OriginalFilename: originalName,
		StoredFilename:   "stored-" + originalName,
		ContentType:      contentType,
		SizeBytes:        sizeHint,
		FilePath:         "/tmp/stored-" + originalName,
	}, nil
}

func (s *blobStoreStub) Resolve(storedName string) (services.BlobResource, error) {
	if res, ok := s.resources[storedName]; ok {
		return res, nil
	}
	return nil, blobstore.ErrNotFound
}

type blobResourceStub struct {
	*bytes.Reader
	closed bool
}

func newBlobResource(data []byte) *blobResourceStub {
	return &blobResourceStub{Reader: bytes.NewReader(data)}
}

func (r *blobResourceStub) Close() error {
	r.closed = true
	return nil
}

func (r *blobResourceStub) Size() int64 {
	return int64(r.Reader.Len())
}

type thumbnailerStub struct {
	thumb *po.StoredFile
	err   error
	calls int
}

func (s *thumbnailerStub) Generate(_ context.Context, video po.StoredFile) (*po.StoredFile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.thumb != nil {
		return s.thumb, nil
	}
	return &po.StoredFile{
		OriginalFilename: "thumbnail.jpg",
		StoredFilename:   "thumb-" + video.StoredFilename + ".jpg",
		ContentType:      "image/jpeg",
		SizeBytes:        128,
		FilePath:         video.FilePath + ".jpg",
	}, nil
}

type noopTxManager struct{}

type noopSession struct{}

func (noopSession) Tx() pgx.Tx               { return nil }
func (noopSession) Context() context.Context { return context.Background() }

func (noopTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

func (noopTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

type countingTxManager struct {
	noopTxManager
	readOnlyCalls int
}

func (m *countingTxManager) WithinReadOnlyTx(ctx context.Context, opts txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	m.readOnlyCalls++
	return m.noopTxManager.WithinReadOnlyTx(ctx, opts, fn)
}

func testLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

func authedCaller() services.Principal {
	return services.Principal{UserID: uuid.New(), Username: "uploader"}
}
