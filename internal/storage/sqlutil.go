package storage

import (
	"context"
	"database/sql"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
)

// Queryer is the subset of *sql.DB and *sql.Tx the adapters run statements on
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullString maps an empty string to SQL NULL
func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NullStringPtr maps a nil pointer to SQL NULL
func NullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// ScanRepositories reads id, owner, name, language, html_url rows
func ScanRepositories(rows *sql.Rows) ([]*domain.Repository, error) {
	defer rows.Close()

	repos := []*domain.Repository{}
	for rows.Next() {
		var r domain.Repository
		var owner, language sql.NullString

		if err := rows.Scan(&r.ID, &owner, &r.Name, &language, &r.HTMLURL); err != nil {
			return nil, err
		}

		r.Owner = owner.String
		if language.Valid {
			lang := language.String
			r.Language = &lang
		}

		repos = append(repos, &r)
	}

	return repos, rows.Err()
}

// RunInTx begins a transaction on db, calls fn and commits or rolls back
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
