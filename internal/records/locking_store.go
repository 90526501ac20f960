package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes the lock only when this writer still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockingStore guards saves with a short-lived Redis lock per table so
// concurrent writers on shared backends refuse instead of racing.
type LockingStore struct {
	Store
	redis *redis.Client
	ttl   time.Duration
}

// NewLockingStore wraps inner so each save holds a Redis lock on the table for
// at most ttl.
func NewLockingStore(inner Store, client *redis.Client, ttl time.Duration) *LockingStore {
	if inner == nil {
		panic("records: inner store required")
	}
	if client == nil {
		panic("records: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &LockingStore{Store: inner, redis: client, ttl: ttl}
}

func (s *LockingStore) SaveTable(ctx context.Context, name string, t *Table) error {
	key := lockKey(name)
	token := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("records: acquire lock %s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("records: save %s: %w", name, ErrTableLocked)
	}
	defer func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), s.redis, []string{key}, token).Err()
	}()
	return s.Store.SaveTable(ctx, name, t)
}

func lockKey(name string) string {
	return fmt.Sprintf("table_lock:%s", name)
}
