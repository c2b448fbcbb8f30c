package parser

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
)

// Parser turns a users/{owner}/repos payload into domain repositories
type Parser struct {
	logger *log.Logger
}

// NewParser creates a new parser
func NewParser(logger *log.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse decodes raw into repositories. Only owner login, name, language and
// html_url are kept. Malformed input yields an empty slice and a
// MALFORMED_RESPONSE error.
func (p *Parser) Parse(raw []byte) ([]*domain.Repository, error) {
	var payload []*github.Repository
	if err := json.Unmarshal(raw, &payload); err != nil {
		p.logger.Error("failed to decode repositories", "bytes", len(raw), "err", err)
		return []*domain.Repository{}, apperrors.NewMalformedResponseError("response is not a JSON array of repositories", err)
	}

	repos := make([]*domain.Repository, 0, len(payload))
	for _, r := range payload {
		if r == nil {
			p.logger.Debug("skipping null repository entry")
			continue
		}
		repos = append(repos, toDomainRepository(r))
	}

	p.logger.Debug("parsed repositories", "count", len(repos))
	return repos, nil
}

// toDomainRepository translates a github.Repository to our domain.Repository
func toDomainRepository(r *github.Repository) *domain.Repository {
	return &domain.Repository{
		Owner:    r.GetOwner().GetLogin(),
		Name:     r.GetName(),
		Language: r.Language,
		HTMLURL:  r.GetHTMLURL(),
	}
}
