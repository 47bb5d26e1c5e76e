package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the connection settings for Redis.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// Client wraps the go-redis client.
type Client struct {
	Client *redis.Client
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(cfg Config) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// AcquireLock takes a best-effort distributed mutex via SET NX. It returns
// false when another holder already owns the key.
func (c *Client) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.Client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// ReleaseLock releases a mutex taken with AcquireLock.
func (c *Client) ReleaseLock(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
