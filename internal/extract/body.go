package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlTagRe matches any start tag, end tag, comment, or doctype. Markdown autolinks
// such as <https://example.com> do not match.
var htmlTagRe = regexp.MustCompile(`(?s)<(?:[a-zA-Z][a-zA-Z0-9-]*(?:\s[^<>]*)?/?|/[a-zA-Z][a-zA-Z0-9-]*\s*|!--.*?--|!(?i:doctype)[^<>]*)>`)

// blockSelector lists elements whose text must not fuse with a neighbour's.
const blockSelector = "p,div,li,dt,dd,h1,h2,h3,h4,h5,h6,br,td,th,tr,section,article," +
	"header,footer,nav,main,aside,blockquote,figure,figcaption,address,pre,hr"

// BodyText returns the readable text of a page body. HTML bodies are parsed and
// reduced to their text with script, style, noscript and template removed; anything else
// (markdown, plain text) is returned unchanged.
func BodyText(body string) string {
	if !htmlTagRe.MatchString(body) {
		return body
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script,noscript,style,template").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
	// Block elements have no separating whitespace in Text(); add one so words
	// from adjacent blocks do not fuse.
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.TrimSpace(doc.Text())
}
