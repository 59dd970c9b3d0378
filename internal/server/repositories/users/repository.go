// Package users provides the user record store: a PostgreSQL implementation
// and an in-memory one with identical semantics.
package users

import (
	"context"

	"github.com/dmitrijs2005/promptkeeper/internal/server/models"
)

// Repository is the keyed record store for users.
//
// Implementations lower-case emails on write and lookup, return
// common.ErrorNotFound when no record matches and common.ErrorAlreadyExists
// when an insert collides with an existing email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id string, name string) (*models.User, error)
}
