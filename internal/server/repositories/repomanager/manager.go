package repomanager

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/promptkeeper/internal/server/config"
	"github.com/dmitrijs2005/promptkeeper/internal/server/repositories/users"
)

// RepositoryManager owns the storage connection and vends repositories.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}

// New picks the backend from dsn: config.MemoryDSN selects the in-memory
// store, anything else is opened as a PostgreSQL DSN.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if strings.EqualFold(dsn, config.MemoryDSN) {
		return NewInMemoryRepositoryManager(), nil
	}
	return OpenPostgres(ctx, dsn)
}
