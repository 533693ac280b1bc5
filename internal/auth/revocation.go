package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records tokens that must no longer be accepted, even though
// their signature and expiry are still valid. Revocation is permanent for the
// remaining lifetime of the token; a revoked token never becomes valid again.
type RevocationList interface {
	// Revoke marks a token as revoked. Revoking an already-revoked token
	// is a no-op and returns nil.
	Revoke(ctx context.Context, token string) error

	// IsRevoked reports whether the token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RevocationConfig selects and configures the revocation backend.
type RevocationConfig struct {
	// Backend selects the storage: "memory" (default) or "redis".
	Backend string `mapstructure:"backend"`

	// KeyPrefix namespaces revocation entries in redis (default: "revoked:").
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *RevocationConfig) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "revoked:"
	}
}

// Validate checks the configuration.
func (c *RevocationConfig) Validate() error {
	switch c.Backend {
	case "memory", "redis":
		return nil
	default:
		return fmt.Errorf("auth: unsupported revocation backend: %s", c.Backend)
	}
}

// --- In-Memory Implementation ---

// MemoryRevocationList is a process-local revocation list backed by a map.
// Suitable for single-process deployments; entries live until process exit.
type MemoryRevocationList struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewMemoryRevocationList creates an empty in-memory revocation list.
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{revoked: make(map[string]struct{})}
}

func (l *MemoryRevocationList) Revoke(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[tokenKey(token)] = struct{}{}
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, token string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.revoked[tokenKey(token)]
	return ok, nil
}

// --- Redis Implementation ---

// RedisRevocationList stores revocation entries in redis so that revocation
// is shared across processes. Entries carry a TTL matching the token
// lifetime; once a token has expired on its own the entry is garbage.
type RedisRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisRevocationList creates a redis-backed revocation list. ttl should
// be the access token lifetime; entries are kept at least that long.
func NewRedisRevocationList(client redis.UniversalClient, cfg RevocationConfig, ttl time.Duration) *RedisRevocationList {
	cfg.ApplyDefaults()
	return &RedisRevocationList{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       ttl,
	}
}

func (l *RedisRevocationList) Revoke(ctx context.Context, token string) error {
	key := l.keyPrefix + tokenKey(token)
	if err := l.client.Set(ctx, key, "1", l.ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := l.keyPrefix + tokenKey(token)
	n, err := l.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("auth: check revocation: %w", err)
	}
	return n > 0, nil
}

// tokenKey hashes the raw token so stores never hold usable credentials.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
