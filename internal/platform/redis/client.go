// Package redis owns the process-wide go-redis connection. The redis-backed
// nullifier ledger and the rate-limit store both run on this one client.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"attesto/internal/platform/config"
)

// Client wraps the go-redis client with a readiness probe.
type Client struct {
	*redis.Client
}

// New connects to the configured Redis and verifies the connection with a
// ping before handing it out. Pool sizing and timeouts from the config
// override whatever the URL carries.
func New(ctx context.Context, cfg config.Redis) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opt.Addr, err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection is usable. The readiness endpoint
// calls it on every probe.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
