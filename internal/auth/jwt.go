package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mvc-is/portal/internal/models"
)

// Claims is the payload of a session token.
// Department is the only authorization signal carried by a session.
type Claims struct {
	jwt.RegisteredClaims
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// TokenManager signs and verifies session tokens with a shared HS256 secret.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager issuing tokens valid for ttl.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue creates a new session token (passport) for the given user.
func (m *TokenManager) Issue(user *models.User) (string, *Claims, error) {
	// 1. Create the claims (the data inside the passport).
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		FullName:   user.FullName,
		Department: user.Department,
	}

	// 2. Sign it with HS256 and our secret key.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses a token string and returns its claims when the signature,
// algorithm, issuer and expiry all check out.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
