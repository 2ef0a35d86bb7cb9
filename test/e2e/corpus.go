// Package e2e provides end-to-end tests over a generated site with planted duplicates
// and a planted boilerplate sentence.
package e2e

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Page is one content file in the E2E corpus. Path is slash-separated and relative to
// the content root; its extension selects how the page is rendered.
type Page struct {
	Path  string
	Title string
	Text  string
}

// ID returns the record id the extractor derives from Path.
func (p Page) ID() string {
	return strings.TrimSuffix(p.Path, path.Ext(p.Path))
}

// Render returns the file bytes for the page. Markdown pages with a title carry it as
// hero frontmatter; HTML pages wrap the title and text in an article.
func (p Page) Render() []byte {
	switch path.Ext(p.Path) {
	case ".html", ".htm":
		return []byte(fmt.Sprintf("<article><h1>%s</h1><p>%s</p><script>track()</script></article>\n", p.Title, p.Text))
	default:
		if p.Title == "" {
			return []byte(p.Text + "\n")
		}
		return []byte(fmt.Sprintf("---\nhero:\n  title: %s\n---\n%s\n", p.Title, p.Text))
	}
}

// Corpus holds the pages of a generated site and what a check over it must report.
type Corpus struct {
	Pages []Page
	// Duplicates maps the id of a near-copy to the id of the page it copies. The copy
	// sorts after its original so it is the one flagged in a sequential run.
	Duplicates map[string]string
	// BoilerplatePhrase is appended to every page in BoilerplateCarriers.
	BoilerplatePhrase   string
	BoilerplateCarriers []string
	TotalPages          int
}

// BoilerplatePhrase is a non-filler sentence shared across pages of both categories.
const BoilerplatePhrase = "Every engineer carries public liability cover."

// BuildCorpus returns a small two-category site: distinct service and location pages,
// one near-copy service page, and a boilerplate sentence appended to four pages.
func BuildCorpus() *Corpus {
	services := []struct{ slug, title, text string }{
		{"boiler-repair", "", "Gas boiler repairs for combi and system boilers including pressure faults and pilot ignition problems"},
		{"drain-unblocking", "Drains", "High pressure jetting clears blocked drains gullies and soil stacks without digging up driveways"},
		{"roof-repairs", "", "Slate and clay tile roofs patched after storms with matching reclaimed materials"},
		{"electrical-rewiring", "", "Full and partial rewires for period houses with consumer unit upgrades and certification"},
		{"kitchen-fitting", "Kitchens", "Bespoke kitchens fitted with solid worktops soft close drawers and integrated appliances"},
		{"damp-proofing", "", "Rising damp treated with chemical injection courses and breathable lime plaster"},
		{"window-glazing", "Sash Windows", "Double glazed sash windows restored with slim units that keep original timber frames"},
		{"garden-landscaping", "", "Patios raised beds and drought tolerant planting designed around how families use gardens"},
		{"pest-control", "Pests", "Wasp nests rodents and bed bugs removed discreetly with follow up visits included"},
		{"carpet-cleaning", "", "Hot water extraction lifts pet stains and allergens from wool and synthetic carpets"},
		{"chimney-sweeping", "Chimneys", "Chimney flues swept and smoke tested before the heating season with a soot certificate"},
		{"locksmith", "", "Emergency lockouts handled without drilling and uPVC door mechanisms replaced same day"},
	}
	locations := []struct{ slug, title, text string }{
		{"ashford", "", "Ashford sits where the high speed line meets the outlet village and new housing estates"},
		{"canterbury", "Canterbury", "Medieval lanes around the cathedral mean narrow access and listed building consent"},
		{"deal", "", "Deal has a shingle beach pier and fishermen cottages built from flint and brick"},
		{"dover", "", "Dover homes face salt spray from the harbour and steep chalk streets below the castle"},
		{"faversham", "Faversham", "Faversham brewery town with creekside warehouses converted into flats"},
		{"folkestone", "", "Folkestone Victorian terraces on the Leas overlook the harbour arm and creative quarter"},
		{"margate", "Margate", "Seaside town with a busy harbour arcade and sandy beaches near the old town"},
		{"whitstable", "", "Whitstable oyster sheds and beach huts line a coast exposed to winter gales"},
	}

	carriers := map[string]bool{
		"services/roof-repairs":        true,
		"services/electrical-rewiring": true,
		"services/locksmith":           true,
		"locations/dover":              true,
	}

	var pages []Page
	add := func(dir, slug, title, text string, i int) {
		ext := ".md"
		if i%4 == 3 {
			ext = ".html"
		}
		p := Page{Path: dir + "/" + slug + ext, Title: title, Text: text}
		if carriers[p.ID()] {
			p.Text += ". " + BoilerplatePhrase
			if ext != ".md" {
				p.Path = dir + "/" + slug + ".md"
			}
		}
		pages = append(pages, p)
	}
	for i, s := range services {
		add("services", s.slug, s.title, s.text, i)
	}
	for i, l := range locations {
		add("locations", l.slug, l.title, l.text, i)
	}

	// Near-copy of boiler-repair with a three-word tail: 13 of 16 shingles shared.
	pages = append(pages, Page{
		Path: "services/boiler-servicing.md",
		Text: services[0].text + " annual visits available",
	})

	var carrierIDs []string
	for id := range carriers {
		carrierIDs = append(carrierIDs, id)
	}
	return &Corpus{
		Pages:               pages,
		Duplicates:          map[string]string{"services/boiler-servicing": "services/boiler-repair"},
		BoilerplatePhrase:   BoilerplatePhrase,
		BoilerplateCarriers: carrierIDs,
		TotalPages:          len(pages),
	}
}

// Write renders every page under root.
func (c *Corpus) Write(root string) error {
	for _, p := range c.Pages {
		dst := filepath.Join(root, filepath.FromSlash(p.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("create dir for %s: %w", p.Path, err)
		}
		if err := os.WriteFile(dst, p.Render(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", p.Path, err)
		}
	}
	return nil
}

// IsCarrier reports whether the page with id carries the boilerplate phrase.
func (c *Corpus) IsCarrier(id string) bool {
	for _, cid := range c.BoilerplateCarriers {
		if cid == id {
			return true
		}
	}
	return false
}
