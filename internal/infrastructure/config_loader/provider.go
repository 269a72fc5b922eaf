package loader

import (
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/blobstore"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/transcoder"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	ProvideBootstrap,
	ProvideServiceMetadata,
	ProvideServerConfig,
	ProvidePostgresConfig,
	ProvideStorageConfig,
	ProvideTranscoderConfig,
	ProvideOutboxConfig,
	ProvideTxConfig,
)

// ProvideBootstrap exposes the typed bootstrap configuration.
func ProvideBootstrap(l *Loader) *Bootstrap {
	if l == nil {
		return nil
	}
	return l.Bootstrap
}

// ProvideServiceMetadata returns resolved service identity.
func ProvideServiceMetadata(l *Loader) ServiceMetadata {
	if l == nil {
		return ServiceMetadata{}
	}
	return l.Service
}

// ProvideServerConfig returns the server section.
func ProvideServerConfig(bc *Bootstrap) *ServerConfig {
	if bc == nil {
		return nil
	}
	return &bc.Server
}

// ProvidePostgresConfig returns the postgres section.
func ProvidePostgresConfig(bc *Bootstrap) *PostgresConfig {
	if bc == nil {
		return nil
	}
	return &bc.Data.Postgres
}

// ProvideStorageConfig maps the storage section onto the blob store config.
func ProvideStorageConfig(bc *Bootstrap) blobstore.Config {
	if bc == nil {
		return blobstore.Config{}
	}
	return blobstore.Config{Root: bc.Storage.Root}
}

// ProvideTranscoderConfig maps the transcoder section onto the ffmpeg config.
func ProvideTranscoderConfig(bc *Bootstrap) transcoder.Config {
	if bc == nil {
		return transcoder.Config{}
	}
	return transcoder.Config{
		Binary:        bc.Transcoder.Binary,
		Timeout:       bc.Transcoder.TimeoutOrDefault(),
		MaxConcurrent: bc.Transcoder.MaxConcurrent,
	}
}

// ProvideOutboxConfig returns the outbox section.
func ProvideOutboxConfig(bc *Bootstrap) OutboxConfig {
	if bc == nil {
		return OutboxConfig{}
	}
	return bc.Outbox
}

// ProvideTxConfig returns the txmanager configuration.
func ProvideTxConfig(l *Loader) txmanager.Config {
	if l == nil {
		return txmanager.Config{}
	}
	return l.TxConfig
}
