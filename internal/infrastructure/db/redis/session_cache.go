package redis

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 10 * time.Minute

// SessionCache remembers verified sessions so the auth gate can skip the
// session store. Only a SHA-256 digest of the key is stored.
// Key format: session:<user_id>:<session_id>
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache wraps client. A non-positive ttl falls back to ten minutes.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionCache{client: client, ttl: ttl}
}

// Verify reports whether an entry exists for the session and, if so,
// whether key matches the remembered digest.
func (c *SessionCache) Verify(ctx context.Context, userID, sessionID int64, key string) (cached, match bool, err error) {
	stored, err := c.client.Get(ctx, sessionKey(userID, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("session cache get: %w", err)
	}
	return true, subtle.ConstantTimeCompare([]byte(stored), []byte(digest(key))) == 1, nil
}

// Remember stores the digest of key for the session until the TTL elapses.
func (c *SessionCache) Remember(ctx context.Context, userID, sessionID int64, key string) error {
	if err := c.client.Set(ctx, sessionKey(userID, sessionID), digest(key), c.ttl).Err(); err != nil {
		return fmt.Errorf("session cache set: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *SessionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func sessionKey(userID, sessionID int64) string {
	return fmt.Sprintf("session:%d:%d", userID, sessionID)
}

func digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
