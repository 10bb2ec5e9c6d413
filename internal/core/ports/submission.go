package ports

import (
	"context"
	"time"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

// SubmissionRepository defines persistence operations for submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error)
	FindByID(ctx context.Context, id string) (*domain.Submission, error)
	FindAll(ctx context.Context) ([]*domain.Submission, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Submission, error)
	FindByChallenge(ctx context.Context, challengeID string) ([]*domain.Submission, error)
	// UpdateGrade sets score, feedback, status GRADED and gradedAt.
	UpdateGrade(ctx context.Context, id string, score int, feedback string, gradedAt time.Time) (*domain.Submission, error)
}

// IdempotencyStore remembers which submission an idempotency key produced.
// A key is reserved before the submission is written, then completed with
// its ID or released when the submit fails.
type IdempotencyStore interface {
	// Reserve claims key. When the key is already held, reserved is false and
	// submissionID is the completed ID, or "" while the holder is still working.
	Reserve(ctx context.Context, key string) (submissionID string, reserved bool, err error)
	Complete(ctx context.Context, key, submissionID string) error
	Release(ctx context.Context, key string) error
}

type SubmitInput struct {
	UserID         string
	ChallengeID    string
	Text           string
	TimeSpent      *int
	IdempotencyKey string
}

// SubmitResult wraps the stored submission. Replayed is true when the
// idempotency key matched an earlier submission.
type SubmitResult struct {
	Submission *domain.Submission
	Replayed   bool
}

type GradeInput struct {
	SubmissionID string
	Score        int
	Feedback     string
}

type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	List(ctx context.Context) ([]*domain.Submission, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Submission, error)
	ListByChallenge(ctx context.Context, challengeID string) ([]*domain.Submission, error)
	Grade(ctx context.Context, input GradeInput) (*domain.Submission, error)
}
