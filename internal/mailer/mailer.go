package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"reviewhub/internal/config"
)

// Mailer delivers confirmation codes to freshly signed-up users.
type Mailer interface {
	SendConfirmationCode(to, username, code string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
	}
}

func (m *smtpMailer) SendConfirmationCode(to, username, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your confirmation code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour confirmation code is: %s\n\nExchange it for an access token at /api/v1/auth/token.\n",
		username, code,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

type logMailer struct {
	logger *slog.Logger
}

// NewLogMailer logs codes instead of sending mail. Development only.
func NewLogMailer(logger *slog.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendConfirmationCode(to, username, code string) error {
	m.logger.Info("confirmation code issued",
		"email", to,
		"username", username,
		"code", code,
	)
	return nil
}
