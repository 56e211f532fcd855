// Package logmail is a development mailer that writes messages to the log instead of sending them.
package logmail

import (
	"context"
	"log/slog"
)

type Mailer struct {
	logger *slog.Logger
}

func NewMailer(logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{logger: logger}
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, html string) error {
	m.logger.InfoContext(ctx, "dev mail", "to", to, "subject", subject, "body", html)
	return nil
}
