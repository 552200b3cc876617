package ports

import (
	"context"
	"time"
)

// RunLock grants exclusive, expiring ownership of a key.
type RunLock interface {
	// Acquire returns domain.ErrAnalysisRunning when the key is already held.
	// The returned release func is safe to call once the ttl has elapsed.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// SuggestionCache memoises LLM suggestion results.
type SuggestionCache interface {
	// Get decodes a cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// SessionStore tracks revoked session token ids.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
