// Package services orchestrates the media pipeline use cases: upload,
// catalog queries and blob downloads. Caller identity is always an explicit
// Principal parameter, never ambient state.
package services

import (
	"context"
	"io"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
)

// VideoCatalog is the record store collaborator the pipeline depends on.
type VideoCatalog interface {
	Create(ctx context.Context, sess txmanager.Session, input repositories.CreateVideoInput) (*po.Video, error)
	FindByID(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.Video, error)
	FindVisible(ctx context.Context, sess txmanager.Session, callerID *uuid.UUID) ([]*po.Video, error)
	SearchVisible(ctx context.Context, sess txmanager.Session, term string, callerID *uuid.UUID) ([]*po.Video, error)
}

// OutboxWriter enqueues domain events inside the upload transaction.
type OutboxWriter interface {
	Enqueue(ctx context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error
}

// BlobResource is a readable, sized, releasable blob handle.
type BlobResource interface {
	io.ReadCloser
	Size() int64
}

// BlobStore is the byte persistence capability consumed by the pipeline.
type BlobStore interface {
	Store(ctx context.Context, src io.Reader, originalName, contentType string, sizeHint int64) (*po.StoredFile, error)
	Resolve(storedName string) (BlobResource, error)
}

// ThumbnailGenerator derives a still image from a stored video. Errors mean
// "no thumbnail", never a failed upload.
type ThumbnailGenerator interface {
	Generate(ctx context.Context, video po.StoredFile) (*po.StoredFile, error)
}
