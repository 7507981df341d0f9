package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"lexcitas/config"
)

// SMTPEmailSender sends mail through the configured SMTP relay.
type SMTPEmailSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPEmailSender builds the sender from AppConfig.
func NewSMTPEmailSender() *SMTPEmailSender {
	cfg := config.AppConfig
	return &SMTPEmailSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// Send delivers one plain-text email.
func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body))

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.from, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email send to %s aborted: %w", to, ctx.Err())
	}
}
