package identity

import (
	"context"
	"log"
	"net/http"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
)

// Headers set by the hosted auth provider's proxy in front of this service.
// Auth itself (tokens, sessions, refresh) never reaches this codebase.
const (
	HeaderUserID = "X-Auth-User-Id"
	HeaderEmail  = "X-Auth-Email"
	HeaderName   = "X-Auth-Name"
	HeaderRole   = "X-Auth-Role"
)

// UserEnsurer creates the user profile on first login.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// Middleware resolves the caller's Session from the auth headers, lazily
// creating the User record the first time an identity appears, and stores
// the session in the request context.
func Middleware(users UserEnsurer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(HeaderUserID)
			if userID == "" {
				http.Error(w, "unauthenticated", http.StatusUnauthorized)
				return
			}

			session := Session{
				UserID: userID,
				Email:  r.Header.Get(HeaderEmail),
				Name:   r.Header.Get(HeaderName),
				Role:   domain.Role(r.Header.Get(HeaderRole)),
			}
			if session.Role == "" {
				session.Role = domain.RoleBuyer
			}

			err := users.EnsureUser(r.Context(), &domain.User{
				ID:    session.UserID,
				Email: session.Email,
				Name:  session.Name,
				Role:  session.Role,
			})
			if err != nil {
				log.Printf("failed to ensure user %s: %v", session.UserID, err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			// The stored role wins over the header: promotions to seller or
			// admin happen in the store, not at the proxy.
			if stored, getErr := users.GetUser(r.Context(), session.UserID); getErr == nil {
				session.Role = stored.Role
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), session)))
		})
	}
}
