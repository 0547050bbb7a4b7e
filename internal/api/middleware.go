package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/yourusername/dealflow/internal/session"
)

// userIDHeader carries the authenticated user's ID, set by the
// authenticating reverse proxy in front of this service.
const userIDHeader = "X-User-ID"

// sessionMiddleware resolves the acting user and places the session in
// the request context. Requests without a parseable user ID are
// rejected before reaching any handler.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.Header.Get(userIDHeader))
		if err != nil || userID == uuid.Nil {
			respondError(w, http.StatusUnauthorized, "missing or invalid user identity")
			return
		}

		ctx := session.NewContext(r.Context(), session.Session{UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
