package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or conflicting input. Specific causes wrap it.
	ErrValidation = errors.New("validation error")

	// ErrAuthenticationFailed covers both an unknown identifier and a wrong
	// password. The two cases are never distinguished.
	ErrAuthenticationFailed = errors.New("invalid username/email or password")

	// ErrConflict is returned by stores on a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrToken signals a signing configuration problem.
	ErrToken = errors.New("token signing failure")

	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

var (
	ErrPasswordRequired        = fmt.Errorf("%w: password cannot be null or empty", ErrValidation)
	ErrEmailRegistered         = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrInvalidChallengeType    = fmt.Errorf("%w: challenge type must be one of WRITING, SPEAKING, LOGICAL", ErrValidation)
	ErrInvalidDifficulty       = fmt.Errorf("%w: difficulty must be one of EASY, MEDIUM, HARD, EXPERT", ErrValidation)
	ErrUserOrChallengeNotFound = fmt.Errorf("%w: user or challenge not found", ErrValidation)
	ErrScoreOutOfRange         = fmt.Errorf("%w: score out of range", ErrValidation)

	// ErrIdempotencyInFlight means another request holds the same idempotency
	// key and has not finished yet.
	ErrIdempotencyInFlight = fmt.Errorf("%w: request with this idempotency key is still in progress", ErrConflict)
)
