// Package kv is the persistence port for the landing page: a small
// key-value store holding opaque JSON blobs, with memory, SQLite and Redis
// backends.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: not found")

// Store persists values under string keys. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns a Store for dsn:
//
//	memory:              in-process map, lost on exit
//	redis://host:6379/0  Redis
//	sqlite:path/to.db    SQLite file (a bare path means the same)
func Open(dsn string) (Store, error) {
	switch {
	case dsn == "memory:" || dsn == "memory":
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return NewRedis(RedisOptions{URL: dsn})
	case strings.HasPrefix(dsn, "sqlite:"):
		return NewSQLite(strings.TrimPrefix(dsn, "sqlite:"))
	case dsn == "":
		return nil, fmt.Errorf("kv: empty store address")
	}
	return NewSQLite(dsn)
}
