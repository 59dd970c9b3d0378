package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/promptkeeper/internal/common"
	"github.com/dmitrijs2005/promptkeeper/internal/dbx"
	"github.com/dmitrijs2005/promptkeeper/internal/server/models"
	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, prompts, reset_password_expires, token, created_at, updated_at`

// PostgresRepository stores users in PostgreSQL over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user, assigning a fresh id when none is set. The store
// timestamps are written back into the returned record.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := user.Clone()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = models.NormalizeEmail(u.Email)

	prompts, err := json.Marshal(u.Prompts)
	if err != nil {
		return nil, fmt.Errorf("encode prompts: %w", err)
	}

	query :=
		`INSERT INTO users (id, name, email, password_hash, prompts)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, string(prompts)).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateName sets the user's name and returns the updated record.
func (r *PostgresRepository) UpdateName(ctx context.Context, id string, name string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE users SET name = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns + `
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id, name))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u            models.User
		prompts      []byte
		resetExpires sql.NullTime
		legacyToken  sql.NullString
	)

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &prompts,
		&resetExpires, &legacyToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Prompts = []string{}
	if len(prompts) > 0 {
		if err := json.Unmarshal(prompts, &u.Prompts); err != nil {
			return nil, fmt.Errorf("decode prompts: %w", err)
		}
	}
	if resetExpires.Valid {
		t := resetExpires.Time
		u.ResetPasswordExpires = &t
	}
	if legacyToken.Valid {
		s := legacyToken.String
		u.Token = &s
	}

	return &u, nil
}
