package db

import (
	"context"
	"time"
)

// Store is the read-only database facade used by the content sources.
type Store interface {
	Pinger
	Reader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Reader fetches stored content blobs.
type Reader interface {
	// Get returns the string value stored at key.
	Get(ctx context.Context, key string) ([]byte, error)
	// JSONGet returns the RedisJSON document stored at key.
	JSONGet(ctx context.Context, key string) ([]byte, error)
	// Scan lists keys matching a glob pattern.
	Scan(ctx context.Context, pattern string) ([]string, error)
}
