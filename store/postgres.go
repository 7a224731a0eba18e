package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Blob stored as one row of the bankroll_ledgers table.
type Postgres struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgres connects to the database and creates the table if needed.
// name identifies the ledger row, it defaults to "default".
func NewPostgres(ctx context.Context, dsn, name string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	const schema = `
		CREATE TABLE IF NOT EXISTS bankroll_ledgers (
			name       TEXT PRIMARY KEY,
			ledger     JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: create table: %w", err)
	}
	if name == "" {
		name = "default"
	}
	return &Postgres{pool: pool, name: name}, nil
}

func (p *Postgres) Get(ctx context.Context) ([]byte, error) {
	const query = `SELECT ledger FROM bankroll_ledgers WHERE name = $1`
	var data []byte
	err := p.pool.QueryRow(ctx, query, p.name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get ledger %s: %w", p.name, err)
	}
	return data, nil
}

func (p *Postgres) Put(ctx context.Context, data []byte) error {
	const query = `
		INSERT INTO bankroll_ledgers (name, ledger, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET
			ledger = EXCLUDED.ledger,
			updated_at = EXCLUDED.updated_at`
	if _, err := p.pool.Exec(ctx, query, p.name, data); err != nil {
		return fmt.Errorf("postgres: save ledger %s: %w", p.name, err)
	}
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() { p.pool.Close() }
