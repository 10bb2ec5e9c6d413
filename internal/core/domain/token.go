package domain

import "time"

// SessionToken is what a successful login hands back to the caller.
type SessionToken struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	ID        string
	Subject   string // username
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
