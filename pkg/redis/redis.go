package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ucdavis/VIPER-sub005/config"
)

// Client wraps the Redis connection.
// Currently used for the per-term harvest lease; cache use cases can extend it.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and runs a ping health check.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── harvest lease ──

const harvestLeasePrefix = "effort:harvest:lease:"

// AcquireHarvestLease takes the per-term harvest lease. Returns false when
// another run already holds it. The TTL bounds how long a crashed run can
// block the term.
func (c *Client) AcquireHarvestLease(ctx context.Context, termCode int, runID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("%s%d", harvestLeasePrefix, termCode)
	ok, err := c.rdb.SetNX(ctx, key, runID, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseHarvestLease releases the lease if this run still owns it.
func (c *Client) ReleaseHarvestLease(ctx context.Context, termCode int, runID string) error {
	key := fmt.Sprintf("%s%d", harvestLeasePrefix, termCode)
	// release only our own lease: a stale run must not drop a newer holder
	const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
	return c.rdb.Eval(ctx, script, []string{key}, runID).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
