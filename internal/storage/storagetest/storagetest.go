// Package storagetest holds behaviour tests shared by every storage adapter.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
	"github.com/kurihiro0119/git-fetcher/internal/storage"
)

// Factory returns an empty, migrated store. The store is closed by the caller.
type Factory func(t *testing.T) storage.Storage

// Repo builds a repository fixture for owner/name
func Repo(owner, name string, language *string) *domain.Repository {
	return &domain.Repository{
		Owner:    owner,
		Name:     name,
		Language: language,
		HTMLURL:  "https://github.com/" + owner + "/" + name,
	}
}

// Lang returns a pointer to s
func Lang(s string) *string { return &s }

// Run exercises the Storage contract against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("Migrate is idempotent", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Migrate(ctx))
		require.NoError(t, s.Migrate(ctx))
	})

	t.Run("Insert assigns ids and ListByOwner returns rows", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		repos := []*domain.Repository{
			Repo("octocat", "hello-world", Lang("Go")),
			Repo("octocat", "spoon-knife", nil),
			Repo("hubot", "scripts", Lang("CoffeeScript")),
		}
		for _, r := range repos {
			require.NoError(t, s.Insert(ctx, r))
			assert.NotZero(t, r.ID)
		}

		got, err := s.ListByOwner(ctx, "octocat")
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, repos[0].ID, got[0].ID)
		assert.Equal(t, "hello-world", got[0].Name)
		assert.Equal(t, "octocat", got[0].Owner)
		require.NotNil(t, got[0].Language)
		assert.Equal(t, "Go", *got[0].Language)
		assert.Equal(t, "https://github.com/octocat/hello-world", got[0].HTMLURL)

		assert.Equal(t, "spoon-knife", got[1].Name)
		assert.Nil(t, got[1].Language)
	})

	t.Run("ListByOwner on unknown owner is empty", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		got, err := s.ListByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("duplicate html_url keeps one row", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Insert(ctx, Repo("octocat", "hello-world", nil)))

		err := s.Insert(ctx, Repo("octocat", "hello-world", Lang("Go")))
		require.Error(t, err)
		assert.True(t, apperrors.IsDuplicateRecord(err))

		got, err := s.ListByOwner(ctx, "octocat")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("Exists", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		exists, err := s.Exists(ctx, "octocat")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, s.Insert(ctx, Repo("octocat", "hello-world", nil)))

		exists, err = s.Exists(ctx, "octocat")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("DeleteByOwner only touches that owner", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Insert(ctx, Repo("octocat", "a", nil)))
		require.NoError(t, s.Insert(ctx, Repo("octocat", "b", nil)))
		require.NoError(t, s.Insert(ctx, Repo("hubot", "c", nil)))

		n, err := s.DeleteByOwner(ctx, "octocat")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		exists, err := s.Exists(ctx, "octocat")
		require.NoError(t, err)
		assert.False(t, exists)

		others, err := s.ListByOwner(ctx, "hubot")
		require.NoError(t, err)
		assert.Len(t, others, 1)
	})

	t.Run("WithTx commits", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		err := s.WithTx(ctx, func(tx storage.Storage) error {
			if err := tx.Insert(ctx, Repo("octocat", "a", nil)); err != nil {
				return err
			}
			// duplicates inside a transaction must not poison it
			if err := tx.Insert(ctx, Repo("octocat", "a", nil)); !apperrors.IsDuplicateRecord(err) {
				return errors.New("expected duplicate record error")
			}
			return tx.Insert(ctx, Repo("octocat", "b", nil))
		})
		require.NoError(t, err)

		got, err := s.ListByOwner(ctx, "octocat")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("WithTx rolls back on error", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Insert(ctx, Repo("octocat", "kept", nil)))

		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx storage.Storage) error {
			if _, err := tx.DeleteByOwner(ctx, "octocat"); err != nil {
				return err
			}
			if err := tx.Insert(ctx, Repo("octocat", "new", nil)); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := s.ListByOwner(ctx, "octocat")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "kept", got[0].Name)
	})
}
