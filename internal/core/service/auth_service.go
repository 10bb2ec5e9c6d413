package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/challengehub/challenge-api/internal/core/domain"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	authn  *Authenticator
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		authn:  NewAuthenticator(users, hasher, log),
		log:    log,
		now:    time.Now,
	}
}

// Register creates a credential identity. The email pre-check is advisory;
// the store's unique constraint settles races, and its conflict is reported
// as the same validation error.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.UserView, error) {
	if strings.TrimSpace(in.Password) == "" {
		return nil, domain.ErrPasswordRequired
	}

	email := strings.TrimSpace(in.Email)
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailRegistered
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	saved, err := s.users.Save(ctx, &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.log.Info().Str("email", email).Msg("registration lost uniqueness race")
			return nil, domain.ErrEmailRegistered
		}
		return nil, fmt.Errorf("register: save: %w", err)
	}

	s.log.Info().Str("user_id", saved.ID).Str("username", saved.Username).Msg("user registered")
	return saved.View(), nil
}

// Login verifies the credentials, resolves the user again by identifier and
// issues a token for its username.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.SessionToken, error) {
	if _, err := s.authn.Authenticate(ctx, identifier, password); err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			s.log.Info().Str("identifier", identifier).Msg("login rejected")
		}
		return nil, err
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("login: resolve user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error().Err(err).Msg("token issue failed")
		return nil, err
	}

	s.log.Debug().Str("username", user.Username).Msg("login succeeded")
	return token, nil
}

// EnsureAdmin registers an ADMIN account unless the email is already taken.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	_, err := s.Register(ctx, ports.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailRegistered) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	return true, nil
}
