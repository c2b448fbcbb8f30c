package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
	"github.com/kurihiro0119/git-fetcher/internal/storage"
)

// sqliteStorage implements the Storage interface for SQLite
type sqliteStorage struct {
	db *sql.DB
	q  storage.Queryer
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", dbPath, err)
	}

	s := &sqliteStorage{db: db, q: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate creates the schema
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS repositories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
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
func (s *sqliteStorage) Exists(ctx context.Context, owner string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM repositories WHERE owner = ?)`, owner,
	).Scan(&exists)
	return exists, err
}

// Insert saves a repository
func (s *sqliteStorage) Insert(ctx context.Context, repo *domain.Repository) error {
	query := `
		INSERT INTO repositories (owner, name, language, html_url)
		VALUES (?, ?, ?, ?)
	`
	res, err := s.q.ExecContext(ctx, query,
		storage.NullString(repo.Owner),
		repo.Name,
		storage.NullStringPtr(repo.Language),
		repo.HTMLURL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateRecordError(repo.HTMLURL, err)
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	repo.ID = id
	return nil
}

// ListByOwner retrieves all repositories for an owner
func (s *sqliteStorage) ListByOwner(ctx context.Context, owner string) ([]*domain.Repository, error) {
	query := `
		SELECT id, owner, name, language, html_url
		FROM repositories
		WHERE owner = ?
		ORDER BY id
	`
	rows, err := s.q.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	return storage.ScanRepositories(rows)
}

// DeleteByOwner removes all repositories for an owner
func (s *sqliteStorage) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM repositories WHERE owner = ?`, owner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// WithTx runs fn inside a transaction. Nested calls reuse the outer transaction.
func (s *sqliteStorage) WithTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	if s.db == nil {
		return fn(s)
	}
	return storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&sqliteStorage{q: tx})
	})
}

// Close closes the database connection
func (s *sqliteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
