package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khryptorgraphics/cpuschedsim/internal/config"
	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

// Result is the memoized payload stored for a given input digest.
type Result struct {
	Trace types.Trace `json:"trace"`
	Info  types.Info  `json:"info"`
}

// Client is the Redis-backed memoization layer. Compute is a pure function
// of its TaskInfo (the engine's idempotence property), so a cache hit never
// needs revalidation against the current engine code.
type Client struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Open connects to Redis using cfg.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logger.Info("cache connected", "addr", cfg.RedisAddr, "ttl", cfg.RedisTTL)
	return &Client{rdb: rdb, ttl: cfg.RedisTTL, logger: logger}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Digest returns the SHA-256 hex digest of the normalized input, used as
// the cache key and as the identifier recorded alongside run history.
func Digest(in types.TaskInfo) (string, error) {
	normalized, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("failed to normalize task info: %w", err)
	}
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:]), nil
}

func key(digest string) string {
	return "cpuschedsim:run:" + digest
}

// Get returns a previously cached result for digest, if present.
func (c *Client) Get(ctx context.Context, digest string) (*Result, bool, error) {
	raw, err := c.rdb.Get(ctx, key(digest)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &res, true, nil
}

// Put stores trace/info under digest with the configured TTL.
func (c *Client) Put(ctx context.Context, digest string, trace types.Trace, info types.Info) error {
	payload, err := json.Marshal(Result{Trace: trace, Info: info})
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := c.rdb.Set(ctx, key(digest), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}
