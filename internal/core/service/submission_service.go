package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/challengehub/challenge-api/internal/core/domain"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

type SubmissionService struct {
	submissions ports.SubmissionRepository
	users       ports.UserRepository
	challenges  ports.ChallengeRepository
	idempotency ports.IdempotencyStore
	log         zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService wires the service. idempotency may be nil, in which
// case idempotency keys are ignored.
func NewSubmissionService(
	submissions ports.SubmissionRepository,
	users ports.UserRepository,
	challenges ports.ChallengeRepository,
	idempotency ports.IdempotencyStore,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		users:       users,
		challenges:  challenges,
		idempotency: idempotency,
		log:         log,
		now:         time.Now,
	}
}

// Submit records a response. When an idempotency key is supplied and was
// already used by the same user, the earlier submission is returned. A key
// whose first request is still running yields domain.ErrIdempotencyInFlight.
func (s *SubmissionService) Submit(ctx context.Context, in ports.SubmitInput) (res *ports.SubmitResult, err error) {
	key, existing, err := s.reserve(ctx, s.scopedKey(in))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.SubmitResult{Submission: existing, Replayed: true}, nil
	}
	if key != "" {
		defer func() {
			if err != nil {
				s.release(ctx, key)
			}
		}()
	}

	if err := s.requireUserAndChallenge(ctx, in.UserID, in.ChallengeID); err != nil {
		return nil, err
	}

	created, err := s.submissions.Create(ctx, &domain.Submission{
		UserID:      in.UserID,
		ChallengeID: in.ChallengeID,
		Text:        in.Text,
		Status:      domain.SubmissionSubmitted,
		TimeSpent:   in.TimeSpent,
		SubmittedAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create submission")
		return nil, fmt.Errorf("submit: %w", err)
	}

	if key != "" {
		if err := s.idempotency.Complete(ctx, key, created.ID); err != nil {
			s.log.Warn().Err(err).Str("submission_id", created.ID).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().
		Str("submission_id", created.ID).
		Str("user_id", in.UserID).
		Str("challenge_id", in.ChallengeID).
		Msg("submission created")

	return &ports.SubmitResult{Submission: created}, nil
}

func (s *SubmissionService) List(ctx context.Context) ([]*domain.Submission, error) {
	return s.submissions.FindAll(ctx)
}

func (s *SubmissionService) ListByUser(ctx context.Context, userID string) ([]*domain.Submission, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.submissions.FindByUser(ctx, userID)
}

func (s *SubmissionService) ListByChallenge(ctx context.Context, challengeID string) ([]*domain.Submission, error) {
	if _, err := s.challenges.FindByID(ctx, challengeID); err != nil {
		return nil, err
	}
	return s.submissions.FindByChallenge(ctx, challengeID)
}

// Grade scores a submission against its challenge's max score.
func (s *SubmissionService) Grade(ctx context.Context, in ports.GradeInput) (*domain.Submission, error) {
	sub, err := s.submissions.FindByID(ctx, in.SubmissionID)
	if err != nil {
		return nil, err
	}
	challenge, err := s.challenges.FindByID(ctx, sub.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("grade: load challenge: %w", err)
	}
	if in.Score < 0 || in.Score > challenge.MaxScore {
		return nil, fmt.Errorf("%w: must be between 0 and %d", domain.ErrScoreOutOfRange, challenge.MaxScore)
	}

	graded, err := s.submissions.UpdateGrade(ctx, sub.ID, in.Score, in.Feedback, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("grade: %w", err)
	}

	s.log.Info().Str("submission_id", graded.ID).Int("score", in.Score).Msg("submission graded")
	return graded, nil
}

func (s *SubmissionService) requireUserAndChallenge(ctx context.Context, userID, challengeID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserOrChallengeNotFound
		}
		return fmt.Errorf("submit: load user: %w", err)
	}
	if _, err := s.challenges.FindByID(ctx, challengeID); err != nil {
		if errors.Is(err, domain.ErrChallengeNotFound) {
			return domain.ErrUserOrChallengeNotFound
		}
		return fmt.Errorf("submit: load challenge: %w", err)
	}
	return nil
}

// reserve claims key for this request. It returns the key to complete
// later, or the submission to replay when the key was already completed.
// An empty returned key means the request runs without idempotency, which
// is also how store failures degrade.
func (s *SubmissionService) reserve(ctx context.Context, key string) (string, *domain.Submission, error) {
	if key == "" {
		return "", nil, nil
	}
	id, reserved, err := s.idempotency.Reserve(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency reserve failed, processing anyway")
		return "", nil, nil
	}
	if reserved {
		return key, nil, nil
	}
	if id == "" {
		return "", nil, domain.ErrIdempotencyInFlight
	}

	existing, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("submission_id", id).Msg("idempotency key points at missing submission")
		return "", nil, nil
	}
	s.log.Info().Str("submission_id", id).Msg("idempotent replay")
	return "", existing, nil
}

func (s *SubmissionService) release(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

func (s *SubmissionService) scopedKey(in ports.SubmitInput) string {
	if s.idempotency == nil || in.IdempotencyKey == "" {
		return ""
	}
	return in.UserID + ":" + in.IdempotencyKey
}
