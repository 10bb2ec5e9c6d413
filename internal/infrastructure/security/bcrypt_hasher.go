package security

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

// BcryptHasher hashes passwords with bcrypt. Every hash carries its own
// random salt and cost, so Verify needs nothing but the stored string.
// Passwords are reduced to a base64 SHA-256 digest first, which keeps every
// input under bcrypt's 72-byte limit without truncating it.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, clamped into bcrypt's valid
// range. A zero cost selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domain.ErrPasswordRequired
	}
	hash, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Cost returns the work factor new hashes are generated with.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
