package email

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/logger"
)

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer is our placeholder mailer.
// Instead of sending a real email, it logs the message so the flow can be
// followed without an SMTP relay.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, body string) error {
	logger.OrNop(m.Log).Info("outgoing email (placeholder)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// SendPasswordReset mails the reset link for token.
func SendPasswordReset(ctx context.Context, m Mailer, baseURL, to, token string) error {
	subject := "Reset your MVC Portal password"

	link := fmt.Sprintf("%s/reset-password?token=%s", baseURL, url.QueryEscape(token))
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\nOpen this link to choose a new one:\n%s\n\nThe link expires in 1 hour. If you did not ask for this, ignore this email.",
		link,
	)

	return m.Send(ctx, to, subject, body)
}
