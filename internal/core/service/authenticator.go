package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/challengehub/challenge-api/internal/core/domain"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

// Authenticator checks an identifier (username or email) and password
// against the credential store.
type Authenticator struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher

	// dummyHash is verified against when the identifier is unknown.
	dummyHash string
}

// NewAuthenticator hashes the placeholder used for unknown identifiers up
// front. A hasher that cannot produce it is logged as an error, since
// unknown identifiers then answer faster than wrong passwords.
func NewAuthenticator(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Authenticator {
	a := &Authenticator{users: users, hasher: hasher}
	h, err := hasher.Hash("no-such-user-placeholder")
	if err != nil {
		log.Error().Err(err).Msg("authenticator: cannot build dummy hash, unknown-user timing is not equalised")
		return a
	}
	a.dummyHash = h
	return a
}

// Authenticate returns the matching user when password verifies. An unknown
// identifier and a wrong password both yield domain.ErrAuthenticationFailed.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	user, err := a.users.FindByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn one verification so a miss costs as much as a wrong password.
			a.hasher.Verify(password, a.dummyHash)
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrAuthenticationFailed
	}
	return user, nil
}
