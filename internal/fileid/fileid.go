// Package fileid derives stable record identifiers and categories from content file paths.
package fileid

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kembar/internal/models"
)

// RecordID returns the record identifier for path under root: the slash-separated
// relative path without its extension, e.g. "services/emergency-plumbing".
// Same root and path always yield the same ID, so re-validating a file overwrites its entry.
func RecordID(root, path string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside content root %s", path, root)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel), nil
}

// CategoryFromPath infers the content category from the first directory under root
// ("services/..." or "locations/..."). It returns false when no known directory matches.
func CategoryFromPath(root, path string) (models.Category, bool) {
	id, err := RecordID(root, path)
	if err != nil {
		return "", false
	}
	first, _, found := strings.Cut(id, "/")
	if !found {
		return "", false
	}
	c, err := models.ParseCategory(first)
	if err != nil {
		return "", false
	}
	return c, true
}

// MatchExtension reports whether path has one of extensions, compared case-insensitively
// with or without the leading dot. Empty extensions match everything.
func MatchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}
