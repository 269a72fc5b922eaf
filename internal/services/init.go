package services

import (
	"context"
	"io"

	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/blobstore"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/transcoder"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/google/wire"
)

// ProviderSet exposes service constructors and capability bindings for Wire.
var ProviderSet = wire.NewSet(
	NewUploadService,
	NewDownloadService,
	NewVideoQueryService,
	ProvideBlobStore,
	ProvideThumbnailGenerator,
	wire.Bind(new(VideoCatalog), new(*repositories.VideoRepository)),
	wire.Bind(new(OutboxWriter), new(*repositories.OutboxRepository)),
)

// ProvideBlobStore adapts the filesystem store to the pipeline capability.
func ProvideBlobStore(store *blobstore.Store) BlobStore {
	return blobStoreAdapter{store: store}
}

// ProvideThumbnailGenerator adapts the transcoder to the pipeline capability.
func ProvideThumbnailGenerator(t transcoder.Thumbnailer) ThumbnailGenerator {
	return t
}

type blobStoreAdapter struct {
	store *blobstore.Store
}

func (a blobStoreAdapter) Store(ctx context.Context, src io.Reader, originalName, contentType string, sizeHint int64) (*po.StoredFile, error) {
	return a.store.Store(ctx, src, originalName, contentType, sizeHint)
}

func (a blobStoreAdapter) Resolve(storedName string) (BlobResource, error) {
	resource, err := a.store.Resolve(storedName)
	if err != nil {
		return nil, err
	}
	return resource, nil
}
