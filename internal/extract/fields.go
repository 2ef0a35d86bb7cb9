package extract

import (
	"strings"

	"github.com/hyperjump/kembar/internal/models"
)

// FieldText concatenates the human-readable fields of f in a fixed order, space-separated.
// Absent or empty fields contribute nothing.
func FieldText(f *models.Fields) string {
	if f == nil {
		return ""
	}
	var parts []string
	add := func(values ...string) {
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				parts = append(parts, v)
			}
		}
	}

	add(f.Description, f.ShortDescription, f.Intro)
	if f.Hero != nil {
		add(f.Hero.Title, f.Hero.Subtitle, f.Hero.Description)
	}
	if f.About != nil {
		add(f.About.Content)
		add(f.About.Items...)
	}
	for _, q := range f.FAQ {
		add(q.Question, q.Answer)
	}
	if f.Specialists != nil {
		for _, c := range f.Specialists.Cards {
			add(c.Title, c.Description)
		}
	}
	return strings.Join(parts, " ")
}

// FullText is the text compared downstream: the extracted fields followed by the body.
func FullText(rec *models.ContentRecord) string {
	fields := FieldText(&rec.Fields)
	body := BodyText(rec.Body)
	switch {
	case fields == "":
		return body
	case body == "":
		return fields
	default:
		return fields + " " + body
	}
}
