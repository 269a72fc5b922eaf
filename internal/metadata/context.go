// Package metadata carries gateway-resolved caller information through the
// request context, shared by controllers and services.
package metadata

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// CallerMetadata is the identity information the gateway attached to the
// request. Empty fields mean the request is anonymous.
type CallerMetadata struct {
	UserID   string
	Username string
}

// IsZero reports whether no caller information is present.
func (m CallerMetadata) IsZero() bool {
	return m.UserID == "" && m.Username == ""
}

// UserUUID parses the user id, reporting whether a valid id was present.
func (m CallerMetadata) UserUUID() (uuid.UUID, bool) {
	if strings.TrimSpace(m.UserID) == "" {
		return uuid.Nil, false
	}
	value, err := uuid.Parse(m.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return value, true
}

type ctxKey struct{}

// Inject stores caller metadata in the context.
func Inject(ctx context.Context, meta CallerMetadata) context.Context {
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, meta)
}

// FromContext reads caller metadata injected upstream.
func FromContext(ctx context.Context) (CallerMetadata, bool) {
	if ctx == nil {
		return CallerMetadata{}, false
	}
	meta, ok := ctx.Value(ctxKey{}).(CallerMetadata)
	return meta, ok
}
