package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
	"github.com/kurihiro0119/git-fetcher/internal/export"
	"github.com/kurihiro0119/git-fetcher/internal/fetcher"
	"github.com/kurihiro0119/git-fetcher/internal/parser"
	"github.com/kurihiro0119/git-fetcher/internal/storage"
)

// Mode identifies which path a run took
type Mode string

const (
	ModeList    Mode = "list"
	ModeFetch   Mode = "fetch"
	ModeRefresh Mode = "refresh"
)

// Options selects what a run does
type Options struct {
	Owner   string
	List    bool
	Refresh bool

	// OutputDir, when set, receives {owner}.json
	OutputDir string
}

// Result summarises a run
type Result struct {
	Mode         Mode
	Owner        string
	Repositories []*domain.Repository
	Inserted     int
	Skipped      int
	Deleted      int64
	OutputPath   string
}

// Controller sequences the list and fetch paths against one store
type Controller struct {
	store   storage.Storage
	fetcher fetcher.Fetcher
	parser  *parser.Parser
	logger  *log.Logger
}

// NewController creates a new controller
func NewController(store storage.Storage, f fetcher.Fetcher, p *parser.Parser, logger *log.Logger) *Controller {
	return &Controller{
		store:   store,
		fetcher: f,
		parser:  p,
		logger:  logger,
	}
}

// Run executes the list path when opts.List is set and the fetch path otherwise
func (c *Controller) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Owner == "" {
		return nil, apperrors.NewMissingArgumentError("owner")
	}
	if err := export.ValidateOwner(opts.Owner); err != nil {
		return nil, err
	}

	if opts.List {
		return c.list(ctx, opts)
	}
	return c.fetch(ctx, opts)
}

func (c *Controller) list(ctx context.Context, opts Options) (*Result, error) {
	repos, err := c.store.ListByOwner(ctx, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	c.logger.Debug("listed repositories", "owner", opts.Owner, "count", len(repos))

	result := &Result{Mode: ModeList, Owner: opts.Owner, Repositories: repos}
	if opts.OutputDir != "" {
		path, err := export.WriteJSON(opts.OutputDir, opts.Owner, repos)
		if err != nil {
			return nil, err
		}
		result.OutputPath = path
	}
	return result, nil
}

// fetch runs delete, existence check, fetch, parse and insert in one
// transaction so a failure at any step leaves the store unchanged. The dump
// is written only after the commit.
func (c *Controller) fetch(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{Mode: ModeFetch, Owner: opts.Owner}
	if opts.Refresh {
		result.Mode = ModeRefresh
	}

	var body []byte
	err := c.store.WithTx(ctx, func(tx storage.Storage) error {
		if opts.Refresh {
			n, err := tx.DeleteByOwner(ctx, opts.Owner)
			if err != nil {
				return fmt.Errorf("failed to delete cached repositories: %w", err)
			}
			result.Deleted = n
			c.logger.Info("deleted cached repositories", "owner", opts.Owner, "count", n)
		}

		exists, err := tx.Exists(ctx, opts.Owner)
		if err != nil {
			return fmt.Errorf("failed to check cache: %w", err)
		}
		if exists {
			return apperrors.NewDuplicateOwnerError(opts.Owner)
		}

		body, err = c.fetcher.FetchRepos(ctx, opts.Owner)
		if err != nil {
			return err
		}
		if isTrivial(body) {
			c.logger.Error("empty response", "owner", opts.Owner)
			return apperrors.NewMalformedResponseError(fmt.Sprintf("no repositories returned for %s", opts.Owner), nil)
		}

		repos, err := c.parser.Parse(body)
		if err != nil {
			return err
		}

		for _, repo := range repos {
			// rows are keyed by the requested owner; the host's login may differ in case
			repo.Owner = opts.Owner
			if err := tx.Insert(ctx, repo); err != nil {
				if apperrors.IsDuplicateRecord(err) {
					c.logger.Warn("skipping duplicate repository", "html_url", repo.HTMLURL)
					result.Skipped++
					continue
				}
				return fmt.Errorf("failed to insert %s: %w", repo.HTMLURL, err)
			}
			result.Inserted++
			result.Repositories = append(result.Repositories, repo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.OutputDir != "" {
		path, err := export.WriteJSON(opts.OutputDir, opts.Owner, json.RawMessage(body))
		if err != nil {
			return nil, err
		}
		result.OutputPath = path
	}

	c.logger.Info("cached repositories", "owner", opts.Owner, "inserted", result.Inserted, "skipped", result.Skipped)
	return result, nil
}

// isTrivial reports whether body carries no repositories at all
func isTrivial(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	switch string(trimmed) {
	case "", "[]", "null":
		return true
	}
	return false
}
