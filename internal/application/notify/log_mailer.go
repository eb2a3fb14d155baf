package notify

import (
	"context"
	"log/slog"

	"github.com/go-otp-auth/internal/domain"
)

// LogMailer writes emails to the structured log instead of delivering them.
// Local development only: the rendered body, code included, ends up in the logs.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendEmail(ctx context.Context, msg domain.EmailMessage) error {
	m.logger.InfoContext(ctx, "email not delivered (log transport)",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
