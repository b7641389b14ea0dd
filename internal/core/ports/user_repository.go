package ports

import (
	"context"

	"github.com/geonotes/notes-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
// Lookups return domain.ErrRecordNotFound when nothing matches; Create
// returns domain.ErrDuplicate when the e-mail is taken.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
