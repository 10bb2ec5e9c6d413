package domain

import (
	"strings"
	"time"
)

// ChallengeType classifies what kind of response a challenge expects.
type ChallengeType string

const (
	ChallengeWriting  ChallengeType = "WRITING"
	ChallengeSpeaking ChallengeType = "SPEAKING"
	ChallengeLogical  ChallengeType = "LOGICAL"
)

// Difficulty is the advertised difficulty of a challenge.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyExpert Difficulty = "EXPERT"
)

const DefaultMaxScore = 100

// ParseChallengeType normalises s and reports whether it names a known type.
func ParseChallengeType(s string) (ChallengeType, bool) {
	t := ChallengeType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case ChallengeWriting, ChallengeSpeaking, ChallengeLogical:
		return t, true
	}
	return "", false
}

// ParseDifficulty normalises s. An empty string yields DifficultyMedium.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case "":
		return DifficultyMedium, true
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return d, true
	}
	return "", false
}

// Challenge is a task users submit responses to.
type Challenge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        ChallengeType `json:"type"`
	Difficulty  Difficulty    `json:"difficulty"`
	MaxScore    int           `json:"max_score"`
	TimeLimit   *int          `json:"time_limit,omitempty"` // minutes, nil means unlimited
	Tags        []string      `json:"tags"`
	IsActive    bool          `json:"is_active"`
	DatePosted  time.Time     `json:"date_posted"`
}
