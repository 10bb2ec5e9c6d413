package handler

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// loginRequest accepts a username or an email in Identifier.
type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"`
}

// --- Challenges ---

type createChallengeRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Type        string   `json:"type" validate:"required"`
	Difficulty  string   `json:"difficulty"`
	MaxScore    int      `json:"max_score" validate:"gte=0"`
	TimeLimit   *int     `json:"time_limit" validate:"omitempty,gt=0"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
}

// --- Submissions ---

type submitRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Text        string `json:"submission_text" validate:"required,max=10000"`
	TimeSpent   *int   `json:"time_spent" validate:"omitempty,gte=0"`
}

type gradeRequest struct {
	Score    *int   `json:"score" validate:"required"`
	Feedback string `json:"feedback" validate:"max=2000"`
}
