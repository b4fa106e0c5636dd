package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apaaranddhruv/satsang/internal/config"
)

// Postgres is an adapter backed by a postgres connection pool.
// All tabs share one table keyed by (kind, id) with the row fields as jsonb.
type Postgres struct {
	pool *pgxpool.Pool
}

const schema = `
	CREATE TABLE IF NOT EXISTS content_rows (
		kind        TEXT        NOT NULL,
		id          TEXT        NOT NULL,
		fields      JSONB       NOT NULL,
		inserted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (kind, id)
	)
`

// NewPostgres creates a postgres-backed adapter and ensures the schema exists
func NewPostgres(cfg config.DatabaseConfig) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		cfg.MaxConns, cfg.MinConns,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set connection pool settings
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Ping the database to verify connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Health checks if the database is healthy
func (p *Postgres) Health(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// GetRows returns all rows in a tab in insertion order
func (p *Postgres) GetRows(ctx context.Context, kind string) ([]Row, error) {
	query := `
		SELECT fields
		FROM content_rows
		WHERE kind = $1
		ORDER BY inserted_at ASC
	`

	rows, err := p.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query rows: %v", ErrAdapter, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %v", ErrAdapter, err)
		}

		var row Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("%w: malformed row fields: %v", ErrAdapter, err)
		}
		out = append(out, row)
	}

	return out, nil
}

// AppendRow appends a row to a tab
func (p *Postgres) AppendRow(ctx context.Context, kind string, row Row) error {
	fields, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal row: %v", ErrAdapter, err)
	}

	query := `
		INSERT INTO content_rows (kind, id, fields)
		VALUES ($1, $2, $3)
	`

	if _, err := p.pool.Exec(ctx, query, kind, row.ID(), fields); err != nil {
		return fmt.Errorf("%w: failed to insert row: %v", ErrAdapter, err)
	}

	return nil
}

// UpdateRow merges fields onto the row with the given id
func (p *Postgres) UpdateRow(ctx context.Context, kind, id string, fields Row) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal fields: %v", ErrAdapter, err)
	}

	query := `
		UPDATE content_rows
		SET fields = fields || $3::jsonb
		WHERE kind = $1 AND id = $2
		RETURNING id
	`

	var updated string
	err = p.pool.QueryRow(ctx, query, kind, id, patch).Scan(&updated)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: failed to update row: %v", ErrAdapter, err)
	}

	return nil
}

// DeleteRow removes the row with the given id
func (p *Postgres) DeleteRow(ctx context.Context, kind, id string) (bool, error) {
	query := `
		DELETE FROM content_rows
		WHERE kind = $1 AND id = $2
	`

	tag, err := p.pool.Exec(ctx, query, kind, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete row: %v", ErrAdapter, err)
	}

	return tag.RowsAffected() > 0, nil
}

// CountRows returns the number of rows in a tab
func (p *Postgres) CountRows(ctx context.Context, kind string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM content_rows
		WHERE kind = $1
	`

	var count int
	if err := p.pool.QueryRow(ctx, query, kind).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: failed to count rows: %v", ErrAdapter, err)
	}

	return count, nil
}
