// Package session carries the identity of the acting user. The session
// is an explicit value threaded into every operation that scopes data
// or storage paths by user; there is no ambient global.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoSession indicates a request arrived without an authenticated user
var ErrNoSession = errors.New("no session in context")

// Session identifies the acting user for a single operation
type Session struct {
	UserID uuid.UUID
}

// Valid reports whether the session carries a real user
func (s Session) Valid() bool {
	return s.UserID != uuid.Nil
}

type contextKey struct{}

// NewContext returns a context carrying the session. Used only at the
// transport boundary; internal code receives the session as a plain
// argument.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session placed by the transport middleware
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || !s.Valid() {
		return Session{}, ErrNoSession
	}
	return s, nil
}
