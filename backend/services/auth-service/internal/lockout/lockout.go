// Package lockout throttles repeated failed logins per username.
package lockout

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store keeps attempt counters and lock markers with expiry.
type Store interface {
	// Incr bumps the counter at key, starting its expiry window on the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// Lock sets a marker at key that expires after d.
	Lock(ctx context.Context, key string, d time.Duration) error
	// Remaining reports how long the marker at key lives; 0 when absent.
	Remaining(ctx context.Context, key string) (time.Duration, error)
	// Clear removes keys.
	Clear(ctx context.Context, keys ...string) error
}

// Config controls when a subject gets locked and for how long.
type Config struct {
	MaxAttempts int
	Duration    time.Duration
	Window      time.Duration
}

// DefaultConfig returns five attempts per fifteen minutes, locked for fifteen minutes.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		Duration:    15 * time.Minute,
		Window:      15 * time.Minute,
	}
}

// Guard applies Config on top of a Store. A Guard without a store never locks.
type Guard struct {
	store  Store
	config Config
}

// NewGuard returns a Guard. Pass a nil store to disable lockout.
func NewGuard(store Store, config Config) *Guard {
	def := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.Duration <= 0 {
		config.Duration = def.Duration
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	return &Guard{store: store, config: config}
}

// Enabled reports whether the guard has a backing store.
func (g *Guard) Enabled() bool {
	return g != nil && g.store != nil
}

// Check returns the remaining lock time for subject, 0 when it may try again.
func (g *Guard) Check(ctx context.Context, subject string) (time.Duration, error) {
	if !g.Enabled() {
		return 0, nil
	}
	remaining, err := g.store.Remaining(ctx, lockKey(subject))
	if err != nil {
		return 0, fmt.Errorf("lockout: check: %w", err)
	}
	return remaining, nil
}

// Fail records a failed attempt. When the subject reaches the limit it is
// locked and the lock duration is returned.
func (g *Guard) Fail(ctx context.Context, subject string) (time.Duration, error) {
	if !g.Enabled() {
		return 0, nil
	}
	attempts, err := g.store.Incr(ctx, attemptsKey(subject), g.config.Window)
	if err != nil {
		return 0, fmt.Errorf("lockout: record failure: %w", err)
	}
	if attempts < int64(g.config.MaxAttempts) {
		return 0, nil
	}
	if err := g.store.Lock(ctx, lockKey(subject), g.config.Duration); err != nil {
		return 0, fmt.Errorf("lockout: lock: %w", err)
	}
	if err := g.store.Clear(ctx, attemptsKey(subject)); err != nil {
		return 0, fmt.Errorf("lockout: clear attempts: %w", err)
	}
	return g.config.Duration, nil
}

// Reset forgets failures for subject after a successful login.
func (g *Guard) Reset(ctx context.Context, subject string) error {
	if !g.Enabled() {
		return nil
	}
	if err := g.store.Clear(ctx, attemptsKey(subject), lockKey(subject)); err != nil {
		return fmt.Errorf("lockout: reset: %w", err)
	}
	return nil
}

func subjectKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

func attemptsKey(subject string) string {
	return "auth:lockout:attempts:" + subjectKey(subject)
}

func lockKey(subject string) string {
	return "auth:lockout:locked:" + subjectKey(subject)
}
