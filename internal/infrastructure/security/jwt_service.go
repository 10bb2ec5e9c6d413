package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

const (
	defaultTokenTTL = 24 * time.Hour
	tokenType       = "Bearer"
)

// sessionClaims is the JWT payload. The subject is always the username.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid,omitempty"`
	Role   string `json:"role,omitempty"`
}

// JWTService issues and validates HS256 session tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService fails with domain.ErrToken when no signing secret is configured.
func NewJWTService(secret, issuer string, ttl time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing secret is empty", domain.ErrToken)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *JWTService) Issue(user *domain.User) (*domain.SessionToken, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrToken, err)
	}

	return &domain.SessionToken{
		Token:     signed,
		TokenType: tokenType,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate parses token and returns its claims. Any defect (bad signature,
// foreign algorithm, wrong issuer, expiry) yields domain.ErrAuthenticationFailed.
func (s *JWTService) Validate(token string) (*domain.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, errors.Join(domain.ErrAuthenticationFailed, err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	out := &domain.TokenClaims{
		ID:      claims.ID,
		Subject: claims.Subject,
		UserID:  claims.UserID,
		Role:    claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
