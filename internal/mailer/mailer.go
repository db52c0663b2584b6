// Package mailer delivers transactional email. Delivery is best-effort:
// callers get a delivered flag, not an error, and fall back to exposing
// the reset link directly when delivery is unavailable.
package mailer

import (
	"gopkg.in/gomail.v2"

	"budgetmate/internal/config"
	"budgetmate/internal/logger"
)

// Mailer is the email-delivery collaborator used by the auth handlers.
type Mailer interface {
	SendPasswordReset(to, resetURL string) bool
}

// SMTPMailer sends mail through the SMTP server from configuration.
type SMTPMailer struct {
	cfg *config.Config
}

// New creates an SMTPMailer using the application configuration.
func New(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendPasswordReset emails a password reset link. Returns false without
// attempting delivery when the SMTP configuration is incomplete, and
// false when the send itself fails.
func (m *SMTPMailer) SendPasswordReset(to, resetURL string) bool {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPUser == "" || m.cfg.SMTPPass == "" || m.cfg.SMTPFrom == "" {
		logger.Get().Warn("Email configuration incomplete, skipping password reset email send")
		return false
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your BudgetMate password")
	msg.SetBody("text/html",
		"<p>Hello,</p>"+
			"<p>You requested to reset your password. Click the link below to choose a new password:</p>"+
			`<p><a href="`+resetURL+`">`+resetURL+`</a></p>`+
			"<p>This link will expire in 30 minutes. If you did not request this change, you can safely ignore this email.</p>")

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.Get().Warnw("password reset email delivery failed", "error", err.Error())
		return false
	}
	return true
}
