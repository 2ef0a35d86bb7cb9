package extract

import (
	"testing"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantFront string
		wantBody  string
		wantOK    bool
	}{
		{"standard", "---\ntitle: x\n---\nbody here\n", "title: x\n", "body here\n", true},
		{"crlf", "---\r\ntitle: x\r\n---\r\nbody", "title: x\r\n", "body", true},
		{"empty block", "---\n---\nbody", "", "body", true},
		{"bom", "\xef\xbb\xbf---\na: b\n---\n", "a: b\n", "", true},
		{"no frontmatter", "# Heading\n\ntext", "", "# Heading\n\ntext", false},
		{"unterminated", "---\na: b\nbody", "", "---\na: b\nbody", false},
		{"empty", "", "", "", false},
		{"dashes later", "text\n---\nmore", "", "text\n---\nmore", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, body, ok := splitFrontmatter([]byte(tt.in))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if string(front) != tt.wantFront {
				t.Errorf("front = %q, want %q", front, tt.wantFront)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
