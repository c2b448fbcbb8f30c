package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
	"github.com/kurihiro0119/git-fetcher/internal/storage"
)

// uniqueViolation is the SQLSTATE for unique_violation
const uniqueViolation = "23505"

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
	q  storage.Queryer
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connStr string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &postgresStorage{db: db, q: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate creates the schema
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS repositories (
		id BIGSERIAL PRIMARY KEY,
		owner TEXT,
		name TEXT NOT NULL,
		language TEXT,
		html_url TEXT NOT NULL UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_repositories_owner ON repositories(owner);
	`

	_, err := s.q.ExecContext(ctx, schema)
	return err
}

// Exists reports whether owner has cached repositories
func (s *postgresStorage) Exists(ctx context.Context, owner string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM repositories WHERE owner = $1)`, owner,
	).Scan(&exists)
	return exists, err
}

// Insert saves a repository. ON CONFLICT keeps an enclosing transaction usable
// after a duplicate.
func (s *postgresStorage) Insert(ctx context.Context, repo *domain.Repository) error {
	query := `
		INSERT INTO repositories (owner, name, language, html_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (html_url) DO NOTHING
		RETURNING id
	`
	err := s.q.QueryRowContext(ctx, query,
		storage.NullString(repo.Owner),
		repo.Name,
		storage.NullStringPtr(repo.Language),
		repo.HTMLURL,
	).Scan(&repo.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewDuplicateRecordError(repo.HTMLURL, nil)
	}
	if isUniqueViolation(err) {
		return apperrors.NewDuplicateRecordError(repo.HTMLURL, err)
	}
	return err
}

// ListByOwner retrieves all repositories for an owner
func (s *postgresStorage) ListByOwner(ctx context.Context, owner string) ([]*domain.Repository, error) {
	query := `
		SELECT id, owner, name, language, html_url
		FROM repositories
		WHERE owner = $1
		ORDER BY id
	`
	rows, err := s.q.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	return storage.ScanRepositories(rows)
}

// DeleteByOwner removes all repositories for an owner
func (s *postgresStorage) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM repositories WHERE owner = $1`, owner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// WithTx runs fn inside a transaction. Nested calls reuse the outer transaction.
func (s *postgresStorage) WithTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	if s.db == nil {
		return fn(s)
	}
	return storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&postgresStorage{q: tx})
	})
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
