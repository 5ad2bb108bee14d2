// Package accounts is the self-hosted identity provider of the portal:
// sign-up, sign-in, sign-out and the forgot/reset password flow.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mvc-is/portal/internal/auth"
	"github.com/mvc-is/portal/internal/email"
	"github.com/mvc-is/portal/internal/logger"
	"github.com/mvc-is/portal/internal/metrics"
	"github.com/mvc-is/portal/internal/models"
)

const (
	// MinPasswordLength applies to sign-up and password reset.
	MinPasswordLength = 8
	// ResetTokenTTL is how long a forgot-password link stays valid.
	ResetTokenTTL = time.Hour
)

// AuthError is a user-facing authentication failure.
type AuthError struct {
	Op      string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

var (
	ErrInvalidCredentials = &AuthError{Op: "signin", Message: "Invalid login credentials"}
	ErrPasswordMismatch   = &AuthError{Op: "reset", Message: "Passwords do not match."}
	ErrInvalidResetToken  = &AuthError{Op: "reset", Message: "This reset link is invalid or has expired."}
)

// Deps are the collaborators of a Service. Revocations, Mailer, Log and
// Metrics are optional.
type Deps struct {
	DB          *gorm.DB
	Tokens      *auth.TokenManager
	Revocations auth.Revocations
	Mailer      email.Mailer
	BaseURL     string
	Log         *zap.Logger
	Metrics     *metrics.Metrics
}

// Service implements the account operations on top of the users and
// password_resets tables.
type Service struct {
	db          *gorm.DB
	tokens      *auth.TokenManager
	revocations auth.Revocations
	mailer      email.Mailer
	baseURL     string
	log         *zap.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewService(d Deps) *Service {
	log := logger.OrNop(d.Log)
	mailer := d.Mailer
	if mailer == nil {
		mailer = email.LogMailer{Log: log}
	}
	return &Service{
		db:          d.DB,
		tokens:      d.Tokens,
		revocations: d.Revocations,
		mailer:      mailer,
		baseURL:     strings.TrimRight(d.BaseURL, "/"),
		log:         log,
		metrics:     d.Metrics,
		now:         time.Now,
	}
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	FullName   string
	Email      string
	Password   string
	Department string
}

// Session is the result of a successful sign-in.
type Session struct {
	Token  string
	Claims *auth.Claims
	User   *models.User
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SignUp registers a new user.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (user *models.User, err error) {
	defer func() { s.metrics.ObserveAuth("signup", err) }()

	// 1. --- Validate Input ---
	addr := normalizeEmail(in.Email)
	if addr == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, &AuthError{Op: "signup", Message: "Full name and email are required."}
	}
	if len(in.Password) < MinPasswordLength {
		return nil, &AuthError{Op: "signup", Message: fmt.Sprintf("Password should be at least %d characters.", MinPasswordLength)}
	}

	// 2. --- Check for an existing account ---
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", addr).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if n > 0 {
		return nil, &AuthError{Op: "signup", Message: "User already registered"}
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 4. --- Save ---
	now := s.now().UTC()
	user = &models.User{
		ID:           uuid.NewString(),
		Email:        addr,
		PasswordHash: password.Hash,
		FullName:     strings.TrimSpace(in.FullName),
		Department:   strings.TrimSpace(in.Department),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user", user.ID), zap.String("department", user.Department))
	return user, nil
}

// SignIn checks the credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, emailAddr, password string) (sess *Session, err error) {
	defer func() { s.metrics.ObserveAuth("signin", err) }()

	// 1. --- Find the user ---
	var user models.User
	err = s.db.WithContext(ctx).Where("email = ?", normalizeEmail(emailAddr)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// 2. --- Check the password ---
	pw := models.Password{Hash: user.PasswordHash}
	ok, err := pw.Matches(password)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	// 3. --- Issue the session token ---
	token, claims, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Claims: claims, User: &user}, nil
}

// SignOut revokes the session token until it expires. Without a denylist
// backend signing out only clears the client cookie.
func (s *Service) SignOut(ctx context.Context, claims *auth.Claims) (err error) {
	defer func() { s.metrics.ObserveAuth("signout", err) }()

	if s.revocations == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RequestPasswordReset mails a one-hour reset link. Unknown addresses are
// accepted silently so the endpoint cannot be used to probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) (err error) {
	defer func() { s.metrics.ObserveAuth("forgot", err) }()

	addr := normalizeEmail(emailAddr)
	var user models.User
	err = s.db.WithContext(ctx).Where("email = ?", addr).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	now := s.now().UTC()
	reset := &models.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(reset).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := email.SendPasswordReset(ctx, s.mailer, s.baseURL, user.Email, reset.Token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using a reset token. The token is
// consumed on success.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) (err error) {
	defer func() { s.metrics.ObserveAuth("reset", err) }()

	// 1. --- Validate Input ---
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return &AuthError{Op: "reset", Message: fmt.Sprintf("Password should be at least %d characters.", MinPasswordLength)}
	}

	var pw models.Password
	if err := pw.Set(password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// 2. --- Consume the token and update the user atomically ---
	now := s.now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		err := tx.Where("token = ?", token).Take(&reset).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return fmt.Errorf("failed to load reset token: %w", err)
		}
		if !now.Before(reset.ExpiresAt) {
			return ErrInvalidResetToken
		}

		res := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Updates(map[string]any{"password_hash": pw.Hash, "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to update password: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidResetToken
		}

		if err := tx.Where("user_id = ?", reset.UserID).Delete(&models.PasswordReset{}).Error; err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}
		return nil
	})
}

// PurgeExpiredResets deletes reset tokens past their expiry.
func (s *Service) PurgeExpiredResets(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&models.PasswordReset{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge reset tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
