package identity

import (
	"context"
	"errors"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
)

var ErrNoSession = errors.New("no session in context")

// Session is the identity of the caller, resolved once per request and
// passed explicitly into every workflow. Nothing in the service layer reads
// ambient auth state.
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   domain.Role
}

func (s Session) IsSeller() bool {
	return s.Role == domain.RoleSeller
}

func (s Session) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

type contextKey struct{}

func NewContext(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

func FromContext(ctx context.Context) (Session, error) {
	session, ok := ctx.Value(contextKey{}).(Session)
	if !ok {
		return Session{}, ErrNoSession
	}
	return session, nil
}
