package auth

import (
	"fmt"
	"net/smtp"

	"thangka-gallery/config"
	"thangka-gallery/internal/logging"
)

type Emailer interface {
	SendPasswordReset(to, link string) error
}

// Mailer sends over SMTP when configured. Without SMTP the link is only
// written at debug level, so production logs never carry a live token.
var Mailer Emailer = defaultMailer{}

type defaultMailer struct{}

func (defaultMailer) SendPasswordReset(to, link string) error {
	cfg := config.App.SMTP
	if !cfg.Enabled() || to == "" {
		logging.Warn().Str("to", to).Msg("password reset not sent (smtp disabled)")
		logging.Debug().Str("to", to).Str("link", link).Msg("password reset link")
		return nil
	}

	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	subject := "Reset your password"
	body := fmt.Sprintf("Use the following link to choose a new password:\n\n%s\n\nThe link expires in one hour.", link)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(cfg.Host+":"+cfg.Port, auth, cfg.From, []string{to}, message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
