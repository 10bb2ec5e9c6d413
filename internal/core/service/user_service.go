package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/challengehub/challenge-api/internal/core/domain"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

// UserService exposes read and delete operations over registered users.
// Everything it returns is a UserView.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.UserView, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.UserView, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.View(), nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.UserView, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.View(), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
