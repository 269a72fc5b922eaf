package blobstore

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet exposes the blob store constructor for Wire.
var ProviderSet = wire.NewSet(ProvideStore)

// ProvideStore builds the store and initializes its root directory.
func ProvideStore(cfg Config, logger log.Logger) (*Store, error) {
	store, err := NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Init(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}
