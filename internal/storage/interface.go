package storage

import (
	"context"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
)

// Storage is the abstract interface for the persistence layer
type Storage interface {
	// Migrate creates the repositories table if it does not exist
	Migrate(ctx context.Context) error

	// Exists reports whether any repository is cached for owner
	Exists(ctx context.Context, owner string) (bool, error)

	// Insert persists repo and sets its ID. A repository whose html_url is
	// already stored is rejected with a DUPLICATE_RECORD AppError.
	Insert(ctx context.Context, repo *domain.Repository) error

	// ListByOwner returns the cached repositories of owner ordered by id
	ListByOwner(ctx context.Context, owner string) ([]*domain.Repository, error)

	// DeleteByOwner removes every repository of owner and returns the count
	DeleteByOwner(ctx context.Context, owner string) (int64, error)

	// WithTx runs fn against a transaction-scoped Storage. The transaction
	// is committed when fn returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(tx Storage) error) error

	// Connection management
	Close() error
}
