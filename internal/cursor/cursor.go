// Package cursor tracks the last relayed message ID per tenant channel so a
// reconnecting bridge session does not re-deliver the upstream "recent"
// window.
package cursor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "bridge:cursor:"
	cursorTTL = 24 * time.Hour
)

// Store persists poll cursors. Message IDs are snowflakes, so a plain
// numeric high-water mark is a valid ordering cursor.
type Store interface {
	// Get returns the cursor for (tenantID, channelID), or 0 if none.
	Get(ctx context.Context, tenantID, channelID string) (uint64, error)
	// Set advances the cursor. Callers only pass values beyond the previous
	// high-water mark.
	Set(ctx context.Context, tenantID, channelID string, id uint64) error
}

// RedisStore implements Store on Redis with a TTL per cursor.
type RedisStore struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(tenantID, channelID string) string {
	return keyPrefix + tenantID + ":" + channelID
}

func (s *RedisStore) Get(ctx context.Context, tenantID, channelID string) (uint64, error) {
	val, err := s.rdb.Get(ctx, key(tenantID, channelID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis Get: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cursor %q: %w", val, err)
	}
	return id, nil
}

func (s *RedisStore) Set(ctx context.Context, tenantID, channelID string, id uint64) error {
	if err := s.rdb.Set(ctx, key(tenantID, channelID), strconv.FormatUint(id, 10), cursorTTL).Err(); err != nil {
		return fmt.Errorf("redis Set: %w", err)
	}
	return nil
}

// MemStore is an in-memory cursor store for testing.
type MemStore struct {
	mu      sync.RWMutex
	cursors map[string]uint64
}

func NewMem() *MemStore {
	return &MemStore{cursors: make(map[string]uint64)}
}

func (m *MemStore) Get(_ context.Context, tenantID, channelID string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cursors[key(tenantID, channelID)], nil
}

func (m *MemStore) Set(_ context.Context, tenantID, channelID string, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[key(tenantID, channelID)] = id
	return nil
}
