// Package timeouts provides centralized timeout values for database operations.
//
// Every call to MongoDB in a run is bounded by one of these values via
// context.WithTimeout. They can be configured at startup using Configure();
// otherwise the defaults apply.
//
// Guidelines for choosing a timeout:
//   - Ping: connectivity verification right after connecting
//   - Query: a single find against the users collection
//   - Batch: an aggregation that scans the whole users collection
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing  = 5 * time.Second
	DefaultQuery = 30 * time.Second
	DefaultBatch = 2 * time.Minute
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping  = DefaultPing
	query = DefaultQuery
	batch = DefaultBatch
)

// Ping returns the timeout for the post-connect ping.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Query returns the timeout for a single list query.
func Query() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return query
}

// Batch returns the timeout for collection-wide scans such as sponsor discovery.
func Batch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return batch
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping  time.Duration
	Query time.Duration
	Batch time.Duration
}

// Configure sets custom timeout values. Zero or negative values are ignored,
// keeping the current (or default) values. Call it during startup, before
// the first query.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Query > 0 {
		query = cfg.Query
	}
	if cfg.Batch > 0 {
		batch = cfg.Batch
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	query = DefaultQuery
	batch = DefaultBatch
}

// Current returns the current timeout configuration as a Config struct.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Query: query, Batch: batch}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Batch(), s.log, "discover sponsors")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
