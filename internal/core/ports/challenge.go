package ports

import (
	"context"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

// ChallengeRepository defines persistence operations for challenges.
type ChallengeRepository interface {
	Create(ctx context.Context, c *domain.Challenge) (*domain.Challenge, error)
	FindByID(ctx context.Context, id string) (*domain.Challenge, error)
	FindAll(ctx context.Context) ([]*domain.Challenge, error)
	FindByType(ctx context.Context, t domain.ChallengeType) ([]*domain.Challenge, error)
	DeleteByID(ctx context.Context, id string) error
}

// CreateChallengeInput carries the fields a caller may set on a new challenge.
// Zero values pick the defaults.
type CreateChallengeInput struct {
	Title       string
	Description string
	Type        string
	Difficulty  string
	MaxScore    int
	TimeLimit   *int
	Tags        []string
	Inactive    bool
}

type ChallengeService interface {
	Create(ctx context.Context, input CreateChallengeInput) (*domain.Challenge, error)
	List(ctx context.Context) ([]*domain.Challenge, error)
	Get(ctx context.Context, id string) (*domain.Challenge, error)
	ListByType(ctx context.Context, challengeType string) ([]*domain.Challenge, error)
	Delete(ctx context.Context, id string) error
}
