package cache

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp/hotp"
	"github.com/redis/go-redis/v9"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/pkg/cryptox"
)

// codeSecretBytes sizes the throwaway HOTP secret used to derive each code.
const codeSecretBytes = 20

// CodeCache stores one-time verification codes. Each issued code gets a
// fresh opaque hash in its own key namespace, distinct from challenge
// hashes; superseded codes simply age out via TTL.
type CodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCodeCache(rdb *redis.Client, ttl time.Duration) *CodeCache {
	return &CodeCache{rdb: rdb, ttl: ttl}
}

// CreateCodeForStrategy derives a six-digit one-time code, stores it under a
// fresh hash and returns both. The code travels to the user only through the
// notifier; it is never part of an API response.
func (c *CodeCache) CreateCodeForStrategy(ctx context.Context, userID string, strategy domain.Strategy) (domain.MFACode, error) {
	code, err := generateCode()
	if err != nil {
		return domain.MFACode{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	encoded, err := json.Marshal(domain.CodeRecord{
		UserID:   userID,
		Strategy: strategy,
		Code:     code,
	})
	if err != nil {
		return domain.MFACode{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	hash, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.MFACode{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if err := c.rdb.Set(ctx, codeKeyPrefix+hash, encoded, c.ttl).Err(); err != nil {
		return domain.MFACode{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	return domain.MFACode{Hash: hash, Code: code}, nil
}

// GetByHash resolves a code hash to its record. The notifier uses it to pick
// up the code and delivery channel; the future code-verification flow will
// consume it the same way.
func (c *CodeCache) GetByHash(ctx context.Context, hash string) (domain.CodeRecord, error) {
	data, err := c.rdb.Get(ctx, codeKeyPrefix+hash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CodeRecord{}, ErrNotFound
		}
		return domain.CodeRecord{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	var rec domain.CodeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.CodeRecord{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return rec, nil
}

// generateCode derives a six-digit code via HOTP over a random secret and
// counter. The secret is thrown away; only the resulting code is kept.
func generateCode() (string, error) {
	buf := make([]byte, codeSecretBytes+8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	secret := base32.StdEncoding.EncodeToString(buf[:codeSecretBytes])
	counter := binary.BigEndian.Uint64(buf[codeSecretBytes:])

	return hotp.GenerateCode(secret, counter)
}
