package ports

import (
	"context"
	"time"

	"github.com/geonotes/notes-api/internal/core/domain"
)

// CredentialCodec signs and verifies bearer credentials.
type CredentialCodec interface {
	Issue(identityID string, role domain.Role, ttl time.Duration) (string, error)
	// Verify returns domain.ErrInvalidToken for every rejection reason.
	Verify(token string) (domain.Identity, error)
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email    string
	UserName string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// UserService defines account use cases. Failures are *domain.Error.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
