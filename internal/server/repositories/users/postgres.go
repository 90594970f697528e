package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/dbx"
	"github.com/samuelireke/hoaxify/internal/server/models"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, inactive, activation_token, password_reset_token, image, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, inactive, activation_token, password_reset_token, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Inactive,
		nullable(user.ActivationToken), nullable(user.PasswordResetToken), nullable(user.Image)).
		Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) FindActiveByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND inactive = false`
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByActivationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE activation_token = $1`
	return r.findOne(ctx, query, token)
}

func (r *PostgresRepository) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE password_reset_token = $1`
	return r.findOne(ctx, query, token)
}

func (r *PostgresRepository) ListActive(ctx context.Context, excludeID string, limit, offset int) ([]*models.User, int64, error) {
	countQuery := `
		SELECT count(*) FROM users
		WHERE inactive = false AND id::text <> $1
	`
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, excludeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE inactive = false AND id::text <> $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, excludeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return list, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, inactive = $5,
		    activation_token = $6, password_reset_token = $7, image = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Inactive,
		nullable(user.ActivationToken), nullable(user.PasswordResetToken), nullable(user.Image))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (int64, error) {
	query := `DELETE FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var activation, reset, image sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Inactive, &activation, &reset, &image, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.ActivationToken = activation.String
	user.PasswordResetToken = reset.String
	user.Image = image.String
	return user, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
