// Package email sends transactional mail. Delivery is best effort: callers
// log failures and carry on, so a down SMTP relay never blocks provisioning.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	SendWelcomeEmail(ctx context.Context, to, firstName, tempPassword string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// New returns an SMTP sender, or a logging no-op when email is disabled in
// config.
func New(cfg Config, logger zerolog.Logger) Sender {
	if !cfg.Enabled {
		return &noopSender{logger: logger}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *smtpSender) SendWelcomeEmail(ctx context.Context, to, firstName, tempPassword string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to Yara Choice Clinic")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>An account has been created for you at Yara Choice Clinic.</p>
		<p>Your temporary password is: <strong>%s</strong></p>
		<p>Please sign in and change it as soon as possible.</p>
	`, firstName, tempPassword))

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send welcome email: %w", err)
		}
		s.logger.Info().Str("to", to).Msg("welcome email sent")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noopSender struct {
	logger zerolog.Logger
}

func (s *noopSender) SendWelcomeEmail(_ context.Context, to, _, _ string) error {
	s.logger.Info().Str("to", to).Msg("email disabled, skipping welcome email")
	return nil
}
