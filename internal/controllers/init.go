package controllers

import (
	loader "github.com/bionicotaku/lingo-services-media/internal/infrastructure/config_loader"

	"github.com/google/wire"
)

// ProviderSet exposes controller/handler constructors for DI.
var ProviderSet = wire.NewSet(
	ProvideHandlerTimeouts,
	NewBaseHandler,
	NewVideoQueryHandler,
	NewUploadHandler,
	NewDownloadHandler,
	NewHandlers,
)

// ProvideHandlerTimeouts derives the per-kind timeout budgets from the
// server configuration.
func ProvideHandlerTimeouts(cfg *loader.ServerConfig) HandlerTimeouts {
	return HandlerTimeouts{
		Default: cfg.HTTP.TimeoutOrDefault(),
		Command: cfg.Handler.CommandTimeoutOrDefault(),
		Query:   cfg.Handler.QueryTimeoutOrDefault(),
	}
}
