package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v55/github"

	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
)

// Fetcher retrieves the raw repository listing of an owner
type Fetcher interface {
	// FetchRepos issues one GET to users/{owner}/repos and returns the body
	FetchRepos(ctx context.Context, owner string) ([]byte, error)
}

// githubFetcher implements Fetcher on top of the go-github request plumbing
type githubFetcher struct {
	client *github.Client
	logger *log.Logger
}

// NewGitHubFetcher creates a fetcher against baseURL. A nil httpClient uses
// the transport defaults.
func NewGitHubFetcher(baseURL string, httpClient *http.Client, logger *log.Logger) (Fetcher, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	client := github.NewClient(httpClient)
	client.BaseURL = u

	return &githubFetcher{
		client: client,
		logger: logger,
	}, nil
}

// FetchRepos retrieves the first page of an owner's repositories as raw JSON
func (f *githubFetcher) FetchRepos(ctx context.Context, owner string) ([]byte, error) {
	path := fmt.Sprintf("users/%s/repos", url.PathEscape(owner))

	req, err := f.client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, apperrors.NewNetworkFailureError("failed to build request", err)
	}

	f.logger.Debug("fetching repositories", "owner", owner, "url", req.URL.String())

	var body bytes.Buffer
	resp, err := f.client.Do(ctx, req, &body)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		f.logger.Error("fetch failed", "owner", owner, "status", status, "err", err)
		return nil, apperrors.NewNetworkFailureError(fmt.Sprintf("failed to fetch repositories for %s", owner), err)
	}

	f.logger.Debug("fetched repositories", "owner", owner, "status", resp.StatusCode, "bytes", body.Len())
	return body.Bytes(), nil
}
