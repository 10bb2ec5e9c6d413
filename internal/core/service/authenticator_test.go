package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

// countingHasher records how many hashes and verifications ran.
type countingHasher struct {
	hashes   int
	verifies int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return testHasher.Hash(password)
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verifies++
	return testHasher.Verify(password, hash)
}

func seedUser(t *testing.T, repo *stubUserRepo, username, email, password string) *domain.User {
	t.Helper()
	hash, err := testHasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := repo.Save(context.Background(), &domain.User{Username: username, Email: email, PasswordHash: hash, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestAuthenticator_Success(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "alice", "a@x.com", "hunter2")
	authn := NewAuthenticator(repo, testHasher, zerolog.Nop())

	u, err := authn.Authenticate(context.Background(), "a@x.com", "hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != seeded.ID {
		t.Errorf("expected user %s, got %s", seeded.ID, u.ID)
	}
}

func TestAuthenticator_UnknownIdentifierStillVerifies(t *testing.T) {
	repo := newStubUserRepo()
	hasher := &countingHasher{}
	authn := NewAuthenticator(repo, hasher, zerolog.Nop())

	_, err := authn.Authenticate(context.Background(), "ghost", "pw")
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if hasher.verifies != 1 {
		t.Fatalf("expected one verification for an unknown identifier, got %d", hasher.verifies)
	}
}

func TestAuthenticator_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", "a@x.com", "hunter2")
	authn := NewAuthenticator(repo, testHasher, zerolog.Nop())

	if _, err := authn.Authenticate(context.Background(), "alice", "nope"); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestAuthenticator_StoreErrorIsNotAuthFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	authn := NewAuthenticator(repo, testHasher, zerolog.Nop())

	_, err := authn.Authenticate(context.Background(), "alice", "hunter2")
	if err == nil || errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

// brokenHasher cannot hash anything.
type brokenHasher struct {
	verified []string
}

func (h *brokenHasher) Hash(string) (string, error) {
	return "", errors.New("hasher offline")
}

func (h *brokenHasher) Verify(_, hash string) bool {
	h.verified = append(h.verified, hash)
	return false
}

func TestNewAuthenticator_BuildsDummyHashUpFront(t *testing.T) {
	hasher := &countingHasher{}
	authn := NewAuthenticator(newStubUserRepo(), hasher, zerolog.Nop())

	if hasher.hashes != 1 {
		t.Fatalf("expected the dummy hash at construction, got %d hashes", hasher.hashes)
	}
	if authn.dummyHash == "" {
		t.Fatal("dummy hash must be set")
	}

	_, _ = authn.Authenticate(context.Background(), "ghost", "pw")
	_, _ = authn.Authenticate(context.Background(), "ghost", "pw")
	if hasher.hashes != 1 {
		t.Fatalf("lookups must reuse the dummy hash, got %d hashes", hasher.hashes)
	}
}

func TestNewAuthenticator_LogsBrokenHasher(t *testing.T) {
	var buf bytes.Buffer
	hasher := &brokenHasher{}
	authn := NewAuthenticator(newStubUserRepo(), hasher, zerolog.New(&buf))

	if !strings.Contains(buf.String(), "cannot build dummy hash") || !strings.Contains(buf.String(), "hasher offline") {
		t.Fatalf("expected an error log, got %q", buf.String())
	}

	if _, err := authn.Authenticate(context.Background(), "ghost", "pw"); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if len(hasher.verified) != 1 {
		t.Fatalf("unknown identifier must still run one verification, got %d", len(hasher.verified))
	}
}
