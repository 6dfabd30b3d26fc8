package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig configures the email channel.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // optional; plain auth when set
	Password string
	Subject  string
}

// SMTPSender delivers codes over SMTP.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Subject == "" {
		cfg.Subject = "Your verification code"
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendCode(ctx context.Context, to, code string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + s.cfg.Subject,
		"",
		"Your verification code is: " + code,
		"It expires shortly. If you did not request it, ignore this message.",
		"",
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", addr, err)
	}
	return nil
}
