// Package storage provides durable backends for the persisted search session.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anatolykoptev/go_tube/internal/search"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Store is a session storage backend that owns a connection.
type Store interface {
	search.Storage
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend     string // sqlite (default), redis, postgres or memory
	Path        string // sqlite file; default ~/.go_tube/state.db
	RedisURL    string
	DatabaseURL string
}

// Open connects the configured backend.
func Open(ctx context.Context, c Config) (Store, error) {
	switch c.Backend {
	case "", BackendSQLite:
		path := c.Path
		if path == "" {
			path = filepath.Join(os.Getenv("HOME"), ".go_tube", "state.db")
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := OpenRedis(ctx, c.RedisURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		s, err := ConnectPostgres(ctx, c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown STATE_BACKEND %q (want sqlite, redis, postgres or memory)", c.Backend)
}
