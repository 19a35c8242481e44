// Package mailer abstracts outbound account emails.
//
// The auth service only depends on the Mailer interface; what actually
// happens to a message is a deployment concern. LogMailer is the built-in
// transport: it writes the full message, link included, to the structured
// log, which is exactly what local development and the test suite need.
package mailer

import (
	"context"
	"log/slog"
)

// Mailer delivers account emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	// SendConfirmation delivers the address-verification email. The link
	// carries a one-time token and lands on the confirm endpoint.
	SendConfirmation(ctx context.Context, email, link string) error

	// SendPasswordReset delivers the password-reset email. The link lands
	// back in the app's new-password view.
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer "delivers" emails by logging them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer writing to the given logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendConfirmation(_ context.Context, email, link string) error {
	m.logger.Info("confirmation email",
		slog.String("to", email),
		slog.String("link", link),
	)
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.logger.Info("password reset email",
		slog.String("to", email),
		slog.String("link", link),
	)
	return nil
}
