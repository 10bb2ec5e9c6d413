package ports

import (
	"context"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups return domain.ErrUserNotFound
// when nothing matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernameOrEmail returns the first user whose username equals
	// username or whose email equals email.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Save inserts user and returns it with a store-assigned ID; an ID already
	// set on user is ignored. A duplicate email yields domain.ErrConflict.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteByID(ctx context.Context, id string) error
}
