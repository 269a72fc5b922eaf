package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/services"
)

// HandlerType selects the timeout policy for a handler.
type HandlerType int

const (
	// HandlerTypeDefault is used when no explicit kind applies.
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand marks write-path handlers (uploads).
	HandlerTypeCommand
	// HandlerTypeQuery marks read-path handlers.
	HandlerTypeQuery
)

// HandlerTimeouts aggregates per-kind timeout budgets.
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
}

const (
	fallbackDefaultTimeout = 5 * time.Second
	fallbackQueryTimeout   = 3 * time.Second

	headerUserID   = "x-md-global-user-id"
	headerUsername = "x-md-global-user-name"
)

// BaseHandler provides the shared timeout and caller-identity plumbing that
// concrete handlers embed.
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler fills missing timeout values with sensible fallbacks.
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		switch {
		case timeouts.Command > 0:
			timeouts.Default = timeouts.Command
		case timeouts.Query > 0:
			timeouts.Default = timeouts.Query
		default:
			timeouts.Default = fallbackDefaultTimeout
		}
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	if timeouts.Query <= 0 {
		timeouts.Query = fallbackQueryTimeout
	}
	return &BaseHandler{timeouts: timeouts}
}

// WithTimeout wraps ctx with the budget for the handler kind.
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = h.timeouts.Command
	case HandlerTypeQuery:
		timeout = h.timeouts.Query
	default:
		timeout = h.timeouts.Default
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// ExtractCaller reads the gateway identity headers. Absent or malformed
// headers yield the anonymous principal; authentication itself happened
// upstream.
func (h *BaseHandler) ExtractCaller(header http.Header) (services.Principal, metadata.CallerMetadata) {
	meta := metadata.CallerMetadata{
		UserID:   strings.TrimSpace(header.Get(headerUserID)),
		Username: strings.TrimSpace(header.Get(headerUsername)),
	}
	userID, ok := meta.UserUUID()
	if !ok {
		return services.Anonymous(), meta
	}
	return services.Principal{UserID: userID, Username: meta.Username}, meta
}
