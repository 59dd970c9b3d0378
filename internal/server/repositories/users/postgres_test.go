package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/promptkeeper/internal/common"
	"github.com/dmitrijs2005/promptkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*name,\s*email,\s*password_hash,\s*prompts\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	byEmailQuery = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byIDQuery    = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	updateQuery  = `(?s)^UPDATE\s+users\s+SET\s+name\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,.*$`
)

var userCols = []string{"id", "name", "email", "password_hash", "prompts", "reset_password_expires", "token", "created_at", "updated_at"}

const testID = "7d8f0c1e-2a44-4c55-9a1b-0f3e6d2c9b10"

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(insertQuery).
		WithArgs(sqlmock.AnyArg(), "Ann", "a@x.com", "hash", "[]").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "A@x.com", PasswordHash: "hash"})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, []string{}, got.Prompts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "a@x.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetUserByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(byEmailQuery).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(testID, "Ann", "a@x.com", "hash", []byte(`["p1","p2"]`), nil, nil, now, now))

	got, err := repo.GetUserByEmail(context.Background(), "A@X.COM")
	require.NoError(t, err)

	assert.Equal(t, testID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, []string{"p1", "p2"}, got.Prompts)
	assert.Nil(t, got.ResetPasswordExpires)
	assert.Nil(t, got.Token)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetUserByID_LegacyColumns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(byIDQuery).
		WithArgs(testID).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(testID, "Ann", "a@x.com", "hash", []byte(`[]`), now, "legacy", now, now))

	got, err := repo.GetUserByID(context.Background(), testID)
	require.NoError(t, err)

	require.NotNil(t, got.ResetPasswordExpires)
	assert.Equal(t, now, *got.ResetPasswordExpires)
	require.NotNil(t, got.Token)
	assert.Equal(t, "legacy", *got.Token)
}

func TestGetUserByID_MalformedIDIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.GetUserByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet(), "no query expected")
}

func TestGetUserByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQuery).WithArgs(testID).WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByID(context.Background(), testID)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdateName_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(updateQuery).
		WithArgs(testID, "Annie").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(testID, "Annie", "a@x.com", "hash", []byte(`[]`), nil, nil, now, now))

	got, err := repo.UpdateName(context.Background(), testID, "Annie")
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)
}

func TestUpdateName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).WithArgs(testID, "Annie").WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateName(context.Background(), testID, "Annie")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
