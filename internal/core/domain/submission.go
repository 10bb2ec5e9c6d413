package domain

import "time"

// SubmissionStatus is the grading state of a submission.
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionGraded    SubmissionStatus = "GRADED"
	SubmissionReviewed  SubmissionStatus = "REVIEWED"
	SubmissionFlagged   SubmissionStatus = "FLAGGED"
)

// Submission is a user's response to a challenge.
type Submission struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	ChallengeID string           `json:"challenge_id"`
	Text        string           `json:"submission_text"`
	Score       *int             `json:"score,omitempty"`
	Feedback    string           `json:"feedback,omitempty"`
	Status      SubmissionStatus `json:"status"`
	TimeSpent   *int             `json:"time_spent,omitempty"` // minutes
	SubmittedAt time.Time        `json:"submitted_at"`
	GradedAt    *time.Time       `json:"graded_at,omitempty"`
}
