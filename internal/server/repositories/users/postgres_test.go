package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRow(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "inactive",
		"activation_token", "password_reset_token", "image", "created_at",
	}).AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.Inactive,
		nullable(u.ActivationToken), nullable(u.PasswordResetToken), nullable(u.Image), u.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\b.*RETURNING\s+created_at\s*$`

	created := time.Now()
	mock.ExpectQuery(q).
		WithArgs("id1", "user1", "user1@email.com", "hash", true,
			nullable("abc123"), nullable(""), nullable("")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	user, err := repo.Create(context.Background(), &models.User{
		ID: "id1", Username: "user1", Email: "user1@email.com",
		PasswordHash: "hash", Inactive: true, ActivationToken: "abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.CreatedAt.Equal(created) {
		t.Fatalf("created_at not populated: %+v", user)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\b`

	mock.ExpectQuery(q).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{
		ID: "id1", Username: "user1", Email: "user1@email.com", PasswordHash: "hash",
	})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("expected ErrorConflict, got %v", err)
	}
}

func TestFindByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	want := &models.User{
		ID: "id1", Username: "user1", Email: "user1@email.com",
		PasswordHash: "hash", CreatedAt: time.Now(),
	}
	mock.ExpectQuery(q).WithArgs("user1@email.com").WillReturnRows(userRow(want))

	got, err := repo.FindByEmail(context.Background(), "user1@email.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Username != want.Username {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs("missing@email.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@email.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestListActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	countQ := `(?s)^\s*SELECT\s+count\(\*\)\s+FROM\s+users\b`
	listQ := `(?s)^\s*SELECT\s+.*FROM\s+users\s+WHERE\s+inactive\s*=\s*false\b.*LIMIT\s+\$2\s+OFFSET\s+\$3\s*$`

	mock.ExpectQuery(countQ).WithArgs("me").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	rows := userRow(&models.User{ID: "id1", Username: "user1", Email: "u1@e.com", PasswordHash: "h", CreatedAt: time.Now()})
	mock.ExpectQuery(listQ).WithArgs("me", 10, 20).WillReturnRows(rows)

	list, total, err := repo.ListActive(context.Background(), "me", 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 11 || len(list) != 1 {
		t.Fatalf("unexpected page: total=%d len=%d", total, len(list))
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+users\b`

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.User{ID: "missing"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
