package fileid

import (
	"path/filepath"
	"testing"

	"github.com/hyperjump/kembar/internal/models"
)

func TestRecordID(t *testing.T) {
	root := filepath.Join("site", "content")
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"nested markdown", filepath.Join(root, "services", "plumbing.md"), "services/plumbing", false},
		{"html file", filepath.Join(root, "locations", "kent", "canterbury.html"), "locations/kent/canterbury", false},
		{"top level", filepath.Join(root, "about.md"), "about", false},
		{"unclean path", filepath.Join(root, "services", "..", "services", "roofing.md"), "services/roofing", false},
		{"outside root", filepath.Join("site", "other", "x.md"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecordID(root, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RecordID error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RecordID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordID_Stable(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "services", "a.md")
	id1, _ := RecordID(root, path)
	id2, _ := RecordID(root+string(filepath.Separator), path)
	if id1 != id2 {
		t.Errorf("same file should give same id: %q vs %q", id1, id2)
	}
}

func TestCategoryFromPath(t *testing.T) {
	root := "content"
	tests := []struct {
		path   string
		want   models.Category
		wantOK bool
	}{
		{filepath.Join(root, "services", "plumbing.md"), models.CategoryService, true},
		{filepath.Join(root, "service", "plumbing.md"), models.CategoryService, true},
		{filepath.Join(root, "locations", "kent", "dover.md"), models.CategoryLocation, true},
		{filepath.Join(root, "blog", "post.md"), "", false},
		{filepath.Join(root, "index.md"), "", false},
	}
	for _, tt := range tests {
		got, ok := CategoryFromPath(root, tt.path)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("CategoryFromPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.md", []string{".md"}, true},
		{"/a/b.MD", []string{"md"}, true},
		{"/a/b.html", []string{".md", ".html"}, true},
		{"/a/b.txt", []string{".md"}, false},
		{"/a/b", []string{".md"}, false},
		{"/a/b", nil, true},
		{"/a/b.txt", []string{}, true},
	}
	for _, tt := range tests {
		if got := MatchExtension(tt.path, tt.extensions); got != tt.want {
			t.Errorf("MatchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}
