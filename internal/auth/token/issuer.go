// Package token adapts pkg/jwtx to the session-token port consumed by the
// login service.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/pkg/jwtx"
)

// Issuer signs session tokens for users that authenticated without a
// step-up. The rest of the service treats the token as opaque.
type Issuer struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

func (i *Issuer) Create(ctx context.Context, u domain.User) (string, error) {
	ttl := i.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(u.ID, u.Name, u.Email, ttl, i.Issuer, time.Now())
	signed, err := i.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("token: sign session token: %w", err)
	}
	return signed, nil
}
