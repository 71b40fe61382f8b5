package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/UnknownOlympus/datasim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordsTable = "records"

var recordColumns = []string{"id", "label", "latitude", "longitude"}

// NewDatabase opens a connection pool to PostgreSQL and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the records table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS records (
			id        INTEGER PRIMARY KEY,
			label     TEXT NOT NULL,
			latitude  DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}

	return nil
}

// ReplaceRecords swaps the content of the records table for the records
// produced by next, inside a single transaction. next must return io.EOF
// once exhausted. Rows are streamed through COPY and never buffered here.
//
// Returns the number of copied rows.
func (r *Repository) ReplaceRecords(ctx context.Context, next func() (models.Record, error)) (int64, error) {
	txn, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	copied, err := r.copyRecords(ctx, txn, next)
	if err != nil {
		if errRb := txn.Rollback(ctx); errRb != nil {
			r.log.ErrorContext(ctx, "Failed to rollback records transaction", "error", errRb)
		}
		return 0, err
	}

	if err = txn.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit records: %w", err)
	}

	r.log.DebugContext(ctx, "Records table replaced.", "rows", copied)

	return copied, nil
}

func (r *Repository) copyRecords(ctx context.Context, txn pgx.Tx, next func() (models.Record, error)) (int64, error) {
	if _, err := txn.Exec(ctx, `TRUNCATE TABLE records;`); err != nil {
		return 0, fmt.Errorf("failed to truncate records table: %w", err)
	}

	source := pgx.CopyFromFunc(func() ([]any, error) {
		rec, err := next()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []any{rec.ID, rec.Label, rec.Coords.Latitude, rec.Coords.Longitude}, nil
	})

	copied, err := txn.CopyFrom(ctx, pgx.Identifier{recordsTable}, recordColumns, source)
	if err != nil {
		return 0, fmt.Errorf("failed to copy records: %w", err)
	}

	return copied, nil
}
