package mail

import (
	"context"
	"log/slog"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

// LogMailer writes would-be emails to the log instead of sending them.
// Default in dev and tests. Tokens are deliberately NOT logged.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendActivationEmail(ctx context.Context, user domain.User, token string) error {
	m.logger().Info("activation email dispatched",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return nil
}

func (m *LogMailer) SendPasswordResetEmail(ctx context.Context, user domain.User, token string) error {
	m.logger().Info("password reset email dispatched",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return nil
}

func (m *LogMailer) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
