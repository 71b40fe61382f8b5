package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/datasim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of *pgxpool.Pool used by the repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	EnsureSchema(ctx context.Context) error
	ReplaceRecords(ctx context.Context, next func() (models.Record, error)) (int64, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
