// Package notify delivers one-time codes to users out of band. It is the
// only component that ever sees a code after issuance; API callers get the
// code hash and nothing else.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/opustack/gatekey/internal/auth/domain"
)

// ErrProvider reports any delivery-side failure (recipient lookup, code
// lookup, transport). Callers surface it as a retryable dependency error.
var ErrProvider = errors.New("notify: provider error")

// UserGetter is the slice of the identity store the notifier needs.
type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// CodeReader resolves a code hash to the stored record.
type CodeReader interface {
	GetByHash(ctx context.Context, hash string) (domain.CodeRecord, error)
}

// EmailSender delivers a code to an email address.
type EmailSender interface {
	SendCode(ctx context.Context, to, code string) error
}

// SMSSender delivers a code to a phone number.
type SMSSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// Notifier routes an issued code to the channel implied by the strategy it
// was created for.
type Notifier struct {
	Users UserGetter
	Codes CodeReader
	Email EmailSender
	SMS   SMSSender
}

// SendCodeForUser looks up the user and the code record behind hash and
// dispatches the code. Every failure collapses into ErrProvider; the
// underlying detail is wrapped for logs, never for API callers.
func (n *Notifier) SendCodeForUser(ctx context.Context, userID, hash string) error {
	u, err := n.Users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: load user: %v", ErrProvider, err)
	}

	rec, err := n.Codes.GetByHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("%w: load code: %v", ErrProvider, err)
	}

	switch rec.Strategy {
	case domain.StrategyEmail:
		if err := n.Email.SendCode(ctx, u.Email, rec.Code); err != nil {
			return fmt.Errorf("%w: email: %v", ErrProvider, err)
		}
	case domain.StrategyPhone:
		if err := n.SMS.SendCode(ctx, u.Phone, rec.Code); err != nil {
			return fmt.Errorf("%w: sms: %v", ErrProvider, err)
		}
	default:
		return fmt.Errorf("%w: no channel for strategy %q", ErrProvider, rec.Strategy)
	}

	return nil
}
