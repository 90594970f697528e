package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/dbx"
	"github.com/samuelireke/hoaxify/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, token *models.Token) error {
	query := `
		INSERT INTO tokens (value, user_id, last_used_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query,
		token.Value, token.UserID, token.LastUsedAt, token.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByValue(ctx context.Context, value string) (*models.Token, error) {
	query := `
		SELECT value, user_id, last_used_at, created_at
		FROM tokens
		WHERE value = $1
	`
	token := &models.Token{}
	if err := r.db.QueryRowContext(ctx, query, value).
		Scan(&token.Value, &token.UserID, &token.LastUsedAt, &token.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, value string, now time.Time) (int64, error) {
	query := `
		UPDATE tokens SET last_used_at = $2
		WHERE value = $1
	`
	res, err := r.db.ExecContext(ctx, query, value, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

func (r *PostgresRepository) DeleteByValue(ctx context.Context, value string) (int64, error) {
	query := `
		DELETE FROM tokens
		WHERE value = $1
	`
	res, err := r.db.ExecContext(ctx, query, value)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	query := `
		DELETE FROM tokens
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	query := `
		DELETE FROM tokens
		WHERE last_used_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, threshold)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
