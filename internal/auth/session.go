package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoSession means the request carries no session token at all.
var ErrNoSession = errors.New("no session")

// Identity is the authenticated user behind a request.
type Identity struct {
	UserID     string `json:"userId"`
	FullName   string `json:"fullName"`
	Department string `json:"department"`
}

// SessionProvider resolves the identity of a request.
// Any error means the request is treated as anonymous.
type SessionProvider interface {
	Resolve(r *http.Request) (*Identity, error)
}

// CookieSessions reads the session token from the session cookie, falling
// back to an "Authorization: Bearer" header.
type CookieSessions struct {
	Tokens      *TokenManager
	Revocations Revocations // optional
	CookieName  string
}

func (s *CookieSessions) Resolve(r *http.Request) (*Identity, error) {
	claims, err := s.Claims(r)
	if err != nil {
		return nil, err
	}
	return &Identity{
		UserID:     claims.Subject,
		FullName:   claims.FullName,
		Department: claims.Department,
	}, nil
}

// Claims validates the request token and checks it has not been signed out.
func (s *CookieSessions) Claims(r *http.Request) (*Claims, error) {
	// 1. --- Find the token ---
	raw := TokenFromRequest(r, s.CookieName)
	if raw == "" {
		return nil, ErrNoSession
	}

	// 2. --- Verify signature & expiry ---
	claims, err := s.Tokens.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	// 3. --- Check the denylist ---
	if s.Revocations != nil && claims.ID != "" {
		revoked, err := s.Revocations.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, errors.New("session has been signed out")
		}
	}
	return claims, nil
}

// TokenFromRequest returns the raw session token of a request, or "".
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
