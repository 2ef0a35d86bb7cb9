// Package extract turns content files into records and records into comparable text.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kembar/internal/fileid"
	"github.com/hyperjump/kembar/internal/models"
)

// ErrNoCategory is returned when neither frontmatter nor the file path names a category.
var ErrNoCategory = errors.New("no content category")

// Extractor loads content records from markdown and HTML files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// header holds the frontmatter keys that describe the record rather than its text.
type header struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Type     string `yaml:"type"`
}

// Load reads the file at path and parses it into a record. The id and category default
// to values derived from the path relative to root; frontmatter "id" and "category"
// (or "type") override them.
func (e *Extractor) Load(root, path string) (*models.ContentRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	id, err := fileid.RecordID(root, path)
	if err != nil {
		return nil, err
	}
	category, _ := fileid.CategoryFromPath(root, path)
	return e.Parse(content, filepath.Ext(path), id, category)
}

// Parse builds a record from file content. ext selects the format (".html" and ".htm"
// are treated as a bare body); markdown may carry YAML frontmatter.
func (e *Extractor) Parse(content []byte, ext, id string, category models.Category) (*models.ContentRecord, error) {
	rec := &models.ContentRecord{ID: id, Category: category}
	text := []byte(validUTF8(content))

	switch strings.ToLower(ext) {
	case ".html", ".htm":
		rec.Body = string(text)
	default:
		front, body, ok := splitFrontmatter(text)
		rec.Body = string(body)
		if ok {
			if err := applyFrontmatter(rec, front); err != nil {
				return nil, err
			}
		}
	}

	if rec.Category == "" {
		return nil, fmt.Errorf("%w for %s", ErrNoCategory, rec.ID)
	}
	return rec, nil
}

func applyFrontmatter(rec *models.ContentRecord, front []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(front, &doc); err != nil {
		return fmt.Errorf("parse frontmatter: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]

	// Header values of the wrong shape are ignored like any other mismatched field.
	var h header
	_ = root.Decode(&h)
	if h.ID != "" {
		rec.ID = h.ID
	}
	name := h.Category
	if name == "" {
		name = h.Type
	}
	if name != "" {
		c, err := models.ParseCategory(name)
		if err != nil {
			return err
		}
		rec.Category = c
	}
	return root.Decode(&rec.Fields)
}
