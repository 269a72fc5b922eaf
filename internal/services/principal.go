package services

import "github.com/google/uuid"

// Principal is the caller identity a boundary layer resolved for the current
// request. The zero value is the anonymous caller. The core never
// authenticates principals, it only consumes them.
type Principal struct {
	UserID   uuid.UUID
	Username string
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal { return Principal{} }

// IsAnonymous reports whether no authenticated user backs this principal.
func (p Principal) IsAnonymous() bool { return p.UserID == uuid.Nil }

// userIDOrNil returns the caller's id as a nullable query parameter.
func (p Principal) userIDOrNil() *uuid.UUID {
	if p.IsAnonymous() {
		return nil
	}
	id := p.UserID
	return &id
}
