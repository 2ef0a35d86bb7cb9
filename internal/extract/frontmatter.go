package extract

import (
	"bytes"
)

var (
	frontmatterDelim = []byte("---")
	utf8BOM          = []byte("\xef\xbb\xbf")
)

// splitFrontmatter separates a leading "---" delimited YAML block from the body.
// ok is false when content has no complete frontmatter block, in which case body is
// the whole content.
func splitFrontmatter(content []byte) (front, body []byte, ok bool) {
	content = bytes.TrimPrefix(content, utf8BOM)
	lineAt := func(from int) (end, next int) {
		if i := bytes.IndexByte(content[from:], '\n'); i >= 0 {
			return from + i, from + i + 1
		}
		return len(content), len(content)
	}
	end, start := lineAt(0)
	if !isDelim(content[:end]) {
		return nil, content, false
	}
	for pos := start; pos < len(content); {
		end, next := lineAt(pos)
		if isDelim(content[pos:end]) {
			return content[start:pos], content[next:], true
		}
		pos = next
	}
	return nil, content, false
}

func isDelim(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r"), frontmatterDelim)
}
