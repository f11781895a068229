package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects the Redis instance backing short-lived counters such as
// login lockout. Zero timeouts and pool size select defaults.
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// Timeout bounds dialing and every command round trip.
	Timeout time.Duration
}

const (
	fallbackTimeout  = 2 * time.Second
	fallbackPoolSize = 10
)

func (o Options) withDefaults() Options {
	o.Addr = strings.TrimSpace(o.Addr)
	if o.Timeout <= 0 {
		o.Timeout = fallbackTimeout
	}
	if o.PoolSize <= 0 {
		o.PoolSize = fallbackPoolSize
	}
	return o
}

// Connect opens a client for opts and fails unless the server answers PING
// before ctx or the configured timeout expires.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	opts = opts.withDefaults()
	if opts.Addr == "" {
		return nil, errors.New("redis: addr is empty")
	}
	if opts.DB < 0 {
		return nil, fmt.Errorf("redis: invalid db index %d", opts.DB)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})

	if err := Healthy(ctx, client, opts.Timeout); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// Healthy pings client, giving up after timeout.
func Healthy(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
