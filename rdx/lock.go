package rdx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a Redis lease lock shared by every engine process. The lease
// expires on its own if the holder dies.
type Lock struct {
	conn  redis.UniversalClient
	ttl   time.Duration
	retry time.Duration
}

func NewLock(conn redis.UniversalClient, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Lock{conn: conn, ttl: ttl, retry: 50 * time.Millisecond}
}

func (l *Lock) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	key = "lock:" + key
	for {
		ok, err := l.conn.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquiring %s: %w", key, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.conn, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Printf("[Redis] releasing %s failed: %v", key, err)
		}
	}, nil
}
