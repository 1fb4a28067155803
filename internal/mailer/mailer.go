// Package mailer delivers password-reset tokens. The only implementation
// logs the reset link to the server log, which is how the demo deployment
// delivers resets.
package mailer

import (
	"context"
	"log"
)

// LogMailer prints the reset link instead of sending email.
type LogMailer struct {
	// BaseURL prefixes the logged link, e.g. "https://admin.example.com".
	BaseURL string
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	log.Printf("Password reset link for %s: %s/admin/reset-password?token=%s", email, m.BaseURL, token)
	return nil
}
