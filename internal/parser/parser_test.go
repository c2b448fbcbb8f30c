package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
	"github.com/kurihiro0119/git-fetcher/internal/logging"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser(logging.Discard())

	t.Run("extracts the record fields", func(t *testing.T) {
		raw := []byte(`[
			{
				"id": 1296269,
				"name": "Hello-World",
				"full_name": "octocat/Hello-World",
				"language": "Go",
				"html_url": "https://github.com/octocat/Hello-World",
				"stargazers_count": 80,
				"owner": {"login": "octocat", "id": 1}
			},
			{
				"name": "Spoon-Knife",
				"language": null,
				"html_url": "https://github.com/octocat/Spoon-Knife",
				"owner": {"login": "octocat"}
			}
		]`)

		repos, err := p.Parse(raw)
		require.NoError(t, err)
		require.Len(t, repos, 2)

		assert.Equal(t, int64(0), repos[0].ID)
		assert.Equal(t, "octocat", repos[0].Owner)
		assert.Equal(t, "Hello-World", repos[0].Name)
		require.NotNil(t, repos[0].Language)
		assert.Equal(t, "Go", *repos[0].Language)
		assert.Equal(t, "https://github.com/octocat/Hello-World", repos[0].HTMLURL)

		assert.Equal(t, "Spoon-Knife", repos[1].Name)
		assert.Nil(t, repos[1].Language)
	})

	t.Run("missing optional fields", func(t *testing.T) {
		raw := []byte(`[{"name": "bare", "html_url": "https://example.com/bare"}, {"name": "anon", "html_url": "https://example.com/anon", "owner": {}}]`)

		repos, err := p.Parse(raw)
		require.NoError(t, err)
		require.Len(t, repos, 2)

		for _, r := range repos {
			assert.Nil(t, r.Language)
			assert.Empty(t, r.Owner)
		}
	})

	t.Run("null entries are skipped", func(t *testing.T) {
		repos, err := p.Parse([]byte(`[null, {"name": "x", "html_url": "u"}]`))
		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, "x", repos[0].Name)
	})

	t.Run("empty array", func(t *testing.T) {
		repos, err := p.Parse([]byte(`[]`))
		require.NoError(t, err)
		assert.NotNil(t, repos)
		assert.Empty(t, repos)
	})
}

func TestParser_ParseMalformed(t *testing.T) {
	inputs := map[string]string{
		"truncated":    `[{"name": "x"`,
		"object":       `{"message": "Not Found"}`,
		"not json":     `<html>rate limited</html>`,
		"wrong type":   `[{"name": 42}]`,
		"empty string": ``,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewParser(logging.New(&buf, "info"))

			repos, err := p.Parse([]byte(input))

			require.Error(t, err)
			assert.True(t, apperrors.IsMalformedResponse(err))
			assert.NotNil(t, repos)
			assert.Empty(t, repos)
			assert.Contains(t, buf.String(), "failed to decode repositories")
		})
	}
}
