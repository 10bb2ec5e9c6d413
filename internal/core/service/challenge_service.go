package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/challengehub/challenge-api/internal/core/domain"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

type ChallengeService struct {
	repo ports.ChallengeRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewChallengeService(repo ports.ChallengeRepository, log zerolog.Logger) *ChallengeService {
	return &ChallengeService{repo: repo, log: log, now: time.Now}
}

// Create stores a new challenge, filling in difficulty, max score, active
// flag and posting date when the input leaves them unset.
func (s *ChallengeService) Create(ctx context.Context, in ports.CreateChallengeInput) (*domain.Challenge, error) {
	ctype, ok := domain.ParseChallengeType(in.Type)
	if !ok {
		return nil, domain.ErrInvalidChallengeType
	}
	difficulty, ok := domain.ParseDifficulty(in.Difficulty)
	if !ok {
		return nil, domain.ErrInvalidDifficulty
	}

	maxScore := in.MaxScore
	if maxScore <= 0 {
		maxScore = domain.DefaultMaxScore
	}

	now := s.now().UTC()
	challenge := &domain.Challenge{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        ctype,
		Difficulty:  difficulty,
		MaxScore:    maxScore,
		TimeLimit:   in.TimeLimit,
		Tags:        normalizeTags(in.Tags),
		IsActive:    !in.Inactive,
		DatePosted:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	created, err := s.repo.Create(ctx, challenge)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create challenge")
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	s.log.Info().Str("challenge_id", created.ID).Str("type", string(created.Type)).Msg("challenge created")
	return created, nil
}

func (s *ChallengeService) List(ctx context.Context) ([]*domain.Challenge, error) {
	return s.repo.FindAll(ctx)
}

func (s *ChallengeService) Get(ctx context.Context, id string) (*domain.Challenge, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByType matches the type case-insensitively.
func (s *ChallengeService) ListByType(ctx context.Context, challengeType string) ([]*domain.Challenge, error) {
	ctype, ok := domain.ParseChallengeType(challengeType)
	if !ok {
		return nil, domain.ErrInvalidChallengeType
	}
	return s.repo.FindByType(ctx, ctype)
}

func (s *ChallengeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("challenge_id", id).Msg("challenge deleted")
	return nil
}

// normalizeTags trims, lowercases and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
