package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/opustack/gatekey/internal/auth/domain"
)

// challengeRecord is the stored shape behind a choice-challenge hash.
type challengeRecord struct {
	UserID     string   `json:"user_id"`
	Strategies []string `json:"strategies"`
}

// ChallengeCache stores pending step-up challenges. Each challenge binds an
// opaque hash to (userID, allowed strategies) for TTL.
type ChallengeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewChallengeCache(rdb *redis.Client, ttl time.Duration) *ChallengeCache {
	return &ChallengeCache{rdb: rdb, ttl: ttl}
}

// Create stores a new challenge record and returns its opaque hash.
func (c *ChallengeCache) Create(ctx context.Context, userID string, strategies []domain.Strategy) (string, error) {
	raw := make([]string, len(strategies))
	for i, s := range strategies {
		raw[i] = s.String()
	}

	encoded, err := json.Marshal(challengeRecord{UserID: userID, Strategies: raw})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}

	hash := uuid.NewString()
	if err := c.rdb.Set(ctx, challengeKeyPrefix+hash, encoded, c.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return hash, nil
}

// FindByHash resolves a challenge hash to its record. Failure kinds:
// ErrNotFound, ErrBackend.
func (c *ChallengeCache) FindByHash(ctx context.Context, hash string) (domain.MFAChallenge, error) {
	data, err := c.rdb.Get(ctx, challengeKeyPrefix+hash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.MFAChallenge{}, ErrNotFound
		}
		return domain.MFAChallenge{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	var rec challengeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.MFAChallenge{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	strategies := make([]domain.Strategy, 0, len(rec.Strategies))
	for _, raw := range rec.Strategies {
		s, err := domain.ParseStrategy(raw)
		if err != nil {
			return domain.MFAChallenge{}, fmt.Errorf("%w: %v", ErrBackend, err)
		}
		strategies = append(strategies, s)
	}

	return domain.MFAChallenge{UserID: rec.UserID, Strategies: strategies}, nil
}
