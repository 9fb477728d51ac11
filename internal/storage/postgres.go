package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS session_records (
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// pgxConn is the subset of *pgxpool.Pool used here; pgxmock implements it too.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Postgres stores records in the session_records table.
type Postgres struct {
	conn pgxConn
}

// ConnectPostgres creates a pgx pool and ensures the schema.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	pg, err := NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("state postgres connected", slog.String("addr", config.ConnConfig.Host))
	return pg, nil
}

// NewPostgres wraps conn and creates the table if needed.
func NewPostgres(ctx context.Context, conn pgxConn) (*Postgres, error) {
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("postgres: init schema: %w", err)
	}
	return &Postgres{conn: conn}, nil
}

func (p *Postgres) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := p.conn.QueryRow(ctx, `SELECT data FROM session_records WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load %s: %w", name, err)
	}
	return data, nil
}

func (p *Postgres) Save(ctx context.Context, name string, data []byte) error {
	_, err := p.conn.Exec(ctx, `INSERT INTO session_records (name, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		name, data)
	if err != nil {
		return fmt.Errorf("postgres: save %s: %w", name, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.conn.Close()
	return nil
}
