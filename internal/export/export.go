// Package export writes cached or fetched repositories to {owner}.json files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
)

// FileName returns the output file name for owner
func FileName(owner string) string {
	return owner + ".json"
}

// ValidateOwner rejects owners that cannot be used as a plain file name
func ValidateOwner(owner string) error {
	if owner == "." || owner == ".." || strings.ContainsAny(owner, `/\`) || strings.Contains(owner, "..") {
		return apperrors.NewInvalidArgumentError("owner", fmt.Sprintf("%q is not a valid account name", owner))
	}
	return nil
}

// WriteJSON writes v as indented JSON to dir/{owner}.json and returns the path.
// A json.RawMessage or []byte is re-indented rather than re-encoded.
func WriteJSON(dir, owner string, v any) (string, error) {
	if err := ValidateOwner(owner); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := encode(v)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(owner))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func encode(v any) ([]byte, error) {
	var raw []byte
	switch b := v.(type) {
	case json.RawMessage:
		raw = b
	case []byte:
		raw = b
	}

	var buf bytes.Buffer
	if raw != nil {
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("failed to indent output: %w", err)
		}
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode output: %w", err)
		}
		return buf.Bytes(), nil
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
