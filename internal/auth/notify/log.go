package notify

import (
	"context"
	"log/slog"
)

// LogEmailSender and LogSMSSender write codes to the log instead of sending
// them. Used in dev environments where no SMTP relay or SMS gateway is
// configured. Never enable outside dev: codes land in stdout.
type LogEmailSender struct {
	Logger *slog.Logger
}

func (s *LogEmailSender) SendCode(ctx context.Context, to, code string) error {
	s.Logger.Info("mfa code (dev email sender)", "to", to, "code", code)
	return nil
}

type LogSMSSender struct {
	Logger *slog.Logger
}

func (s *LogSMSSender) SendCode(ctx context.Context, phone, code string) error {
	s.Logger.Info("mfa code (dev sms sender)", "phone", phone, "code", code)
	return nil
}
