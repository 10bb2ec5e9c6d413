package ports

import (
	"context"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

// RegisterInput carries a registration request. Role is optional.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.UserView, error)
	Login(ctx context.Context, identifier, password string) (*domain.SessionToken, error)
}

type UserService interface {
	List(ctx context.Context) ([]*domain.UserView, error)
	Get(ctx context.Context, id string) (*domain.UserView, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserView, error)
	Delete(ctx context.Context, id string) error
}
