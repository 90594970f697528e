package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/samuelireke/hoaxify/internal/dbx"
	"github.com/samuelireke/hoaxify/internal/server/migrations"
	"github.com/samuelireke/hoaxify/internal/server/repositories/tokens"
	"github.com/samuelireke/hoaxify/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return tokens.NewPostgresRepository(db)
}

// PostgresTxRunner runs a function against a transactional users repository,
// committing on success and rolling back on error.
type PostgresTxRunner struct {
	db *sql.DB
	m  RepositoryManager
}

func NewPostgresTxRunner(db *sql.DB, m RepositoryManager) *PostgresTxRunner {
	return &PostgresTxRunner{db: db, m: m}
}

func (r *PostgresTxRunner) RunTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, r.m.Users(tx))
	})
}

// OpenDB opens a database/sql handle over the pgx driver and applies all
// embedded migrations.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}
