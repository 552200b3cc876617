package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/zetruc/pulse/internal/core/domain"
)

const releaseTimeout = 2 * time.Second

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock taken over by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock is a SET NX lock with a TTL.
type RunLock struct {
	client *redis.Client
	prefix string
}

func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{client: client, prefix: "lock:"}
}

// Acquire takes key for ttl. It returns domain.ErrAnalysisRunning when the
// lock is already held.
func (l *RunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	full := l.prefix + key

	ok, err := l.client.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrAnalysisRunning
	}

	release := func() {
		// The request context may already be done when the run finishes.
		rctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{full}, token).Err()
	}
	return release, nil
}
