package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends HTML notification emails.
type Mailer interface {
	Send(recipients []string, subject, htmlBody string) error
	Configured() bool
}

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ Mailer = (*smtpMailer)(nil)

// New creates an SMTP-backed Mailer. An empty host yields a Mailer whose
// Configured() is false; callers degrade to a logged no-op.
func New(cfg Config) Mailer {
	if cfg.From == "" {
		cfg.From = "AI RCA Service <no-reply@example.com>"
	}
	return &smtpMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *smtpMailer) Configured() bool {
	return m.cfg.Host != ""
}

func (m *smtpMailer) Send(recipients []string, subject, htmlBody string) error {
	if !m.Configured() {
		return fmt.Errorf("smtp transport not configured")
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.cfg.From + "\r\n")
	msg.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
