// Package corpus holds the per-run cache of validated records used for cross-document comparison.
package corpus

import (
	"sync"

	"github.com/hyperjump/kembar/internal/fingerprint"
	"github.com/hyperjump/kembar/internal/models"
)

// Entry is one validated record as seen by later comparisons. Entries are never mutated;
// re-validating an id replaces the whole entry.
type Entry struct {
	ID          string
	Category    models.Category
	Fingerprint fingerprint.Set
	Text        string
}

// Cache maps record ids to entries. It has no eviction; call Clear between independent runs.
type Cache struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
	}
}

// Put stores the entry for id, replacing any previous entry. It reports whether one was replaced.
func (c *Cache) Put(id string, fp fingerprint.Set, text string, category models.Category) bool {
	entry := &Entry{ID: id, Category: category, Fingerprint: fp, Text: text}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, replaced := c.entries[id]
	c.entries[id] = entry
	return replaced
}

// Get returns the entry for id if present.
func (c *Cache) Get(id string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e, ok
}

// Others returns every entry of category except the one with id exclude.
func (c *Cache) Others(category models.Category, exclude string) []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entry, 0, len(c.entries))
	for id, e := range c.entries {
		if id == exclude || e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// All returns a snapshot of every entry regardless of category.
func (c *Cache) All() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// Size returns the number of cached records.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CategorySizes returns the number of cached records per category.
func (c *Cache) CategorySizes() map[models.Category]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sizes := make(map[models.Category]int)
	for _, e := range c.entries {
		sizes[e.Category]++
	}
	return sizes
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}
