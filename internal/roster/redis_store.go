package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fundwatch/internal/domain"
)

// DefaultRedisKey is where the roster snapshot lives when no key is given.
const DefaultRedisKey = "fundwatch:roster"

// RedisStore shares one roster snapshot between API replicas.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

type snapshot struct {
	StoredAt    time.Time           `json:"stored_at"`
	Politicians []domain.Politician `json:"politicians"`
}

func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

// Get treats a snapshot older than the ttl as a miss even if Redis has not
// expired it yet; freshness is judged against now.
func (r *RedisStore) Get(ctx context.Context, now time.Time) ([]domain.Politician, bool, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("roster: redis get: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, fmt.Errorf("roster: decode snapshot: %w", err)
	}
	if now.Sub(snap.StoredAt) >= r.ttl {
		return nil, false, nil
	}
	return snap.Politicians, true, nil
}

func (r *RedisStore) Set(ctx context.Context, politicians []domain.Politician, now time.Time) error {
	raw, err := json.Marshal(snapshot{StoredAt: now.UTC(), Politicians: politicians})
	if err != nil {
		return fmt.Errorf("roster: encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("roster: redis set: %w", err)
	}
	return nil
}
