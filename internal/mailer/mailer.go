package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/internal/logging"
)

// Sender dispatches a single email. The OTP flow treats a failed Send
// as "delivery uncertain", never as a failed code issue.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns the configured sender: real SMTP when enabled, otherwise
// a log-only sender that records the mail instead of delivering it.
func New(cfg config.SMTPConfig, log *logging.Logger) Sender {
	if cfg.Enabled {
		return &SMTPSender{cfg: cfg}
	}
	return &LogSender{log: log}
}

// SMTPSender delivers mail over plain SMTP with optional auth
type SMTPSender struct {
	cfg config.SMTPConfig
}

// Send delivers one message
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogSender writes the mail to the log. Used in development and tests,
// matching the mock mail behavior of the mobile app.
type LogSender struct {
	log *logging.Logger
}

// Send logs one message instead of delivering it
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.log.WithEmail(to).Infof("mail (not delivered): %s: %s", subject, body)
	return nil
}
