// Package pg implementa el store sobre PostgreSQL: una tabla única de
// registros con índice sobre la clave secundaria.
package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/littlejohn/internal/store"
)

func init() {
	store.Register("postgres", func(ctx context.Context, dsn string) (store.Store, error) {
		return Open(ctx, dsn)
	})
}

const schema = `
CREATE TABLE IF NOT EXISTS littlejohn_records (
	id        TEXT PRIMARY KEY,
	secondary TEXT NOT NULL DEFAULT '',
	data      BYTEA NOT NULL
);
CREATE INDEX IF NOT EXISTS littlejohn_records_secondary_idx
	ON littlejohn_records (secondary) WHERE secondary <> '';
`

type adapter struct {
	pool *pgxpool.Pool
}

// Open conecta al Postgres del DSN y asegura el esquema.
func Open(ctx context.Context, dsn string) (store.Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ensure schema: %w", err)
	}
	return &adapter{pool: pool}, nil
}

func (a *adapter) Get(ctx context.Context, id string) (*store.Record, error) {
	var rec store.Record
	err := a.pool.QueryRow(ctx,
		`SELECT id, secondary, data FROM littlejohn_records WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Secondary, &rec.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("pg: get %s: %w", id, err)
	}
	return &rec, nil
}

func (a *adapter) Put(ctx context.Context, rec store.Record) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO littlejohn_records (id, secondary, data) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET secondary = $2, data = $3`,
		rec.ID, rec.Secondary, rec.Data)
	if err != nil {
		return fmt.Errorf("pg: put %s: %w", rec.ID, err)
	}
	return nil
}

func (a *adapter) Delete(ctx context.Context, id string) error {
	if _, err := a.pool.Exec(ctx,
		`DELETE FROM littlejohn_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("pg: delete %s: %w", id, err)
	}
	return nil
}

func (a *adapter) Scan(ctx context.Context, prefix string) ([]store.Record, string, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT id, secondary, data FROM littlejohn_records
		WHERE id LIKE $1 ORDER BY id`,
		escapeLike(prefix)+"%")
	if err != nil {
		return nil, "", fmt.Errorf("pg: scan: %w", err)
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var rec store.Record
		if err := rows.Scan(&rec.ID, &rec.Secondary, &rec.Data); err != nil {
			return nil, "", fmt.Errorf("pg: scan row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("pg: scan: %w", err)
	}
	return out, "", nil
}

func (a *adapter) QueryBySecondary(ctx context.Context, secondary string) ([]store.Record, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT id, secondary, data FROM littlejohn_records
		WHERE secondary = $1 AND secondary <> ''`,
		secondary)
	if err != nil {
		return nil, fmt.Errorf("pg: query secondary: %w", err)
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var rec store.Record
		if err := rows.Scan(&rec.ID, &rec.Secondary, &rec.Data); err != nil {
			return nil, fmt.Errorf("pg: query secondary row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (a *adapter) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}

func (a *adapter) Close() error {
	a.pool.Close()
	return nil
}

// escapeLike escapa los comodines de LIKE para usar el prefijo literal.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}
