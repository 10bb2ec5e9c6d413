package ports

import "github.com/challengehub/challenge-api/internal/core/domain"

// PasswordHasher turns plaintext passwords into salted one-way hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenService issues and validates signed session tokens.
type TokenService interface {
	Issue(user *domain.User) (*domain.SessionToken, error)
	Validate(token string) (*domain.TokenClaims, error)
}
