// Package models defines core data structures for content records, validation issues, and results.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the page type that scopes which records are compared against each other.
type Category string

const (
	CategoryService  Category = "service"
	CategoryLocation Category = "location"
)

// ErrUnknownCategory is returned by ParseCategory for values outside the closed set.
var ErrUnknownCategory = errors.New("unknown content category")

// ParseCategory maps a category name (singular or plural, any case) to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "service", "services":
		return CategoryService, nil
	case "location", "locations":
		return CategoryLocation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryService || c == CategoryLocation
}

// ContentRecord is one parsed page handed to the validator. It is not modified after that.
type ContentRecord struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Fields   Fields   `json:"fields"`
	Body     string   `json:"body"`
}

// Fields holds the human-readable structured fields of a page.
type Fields struct {
	Description      string       `json:"description,omitempty" yaml:"description,omitempty"`
	ShortDescription string       `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	Intro            string       `json:"intro,omitempty" yaml:"intro,omitempty"`
	Hero             *Hero        `json:"hero,omitempty" yaml:"hero,omitempty"`
	About            *About       `json:"about,omitempty" yaml:"about,omitempty"`
	FAQ              []FAQ        `json:"faq,omitempty" yaml:"faq,omitempty"`
	Specialists      *Specialists `json:"specialists,omitempty" yaml:"specialists,omitempty"`
}

// Hero is the banner block at the top of a page.
type Hero struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// About is the free-text section with an optional bullet list.
type About struct {
	Content string   `json:"content,omitempty" yaml:"content,omitempty"`
	Items   []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// FAQ is a single question/answer pair.
type FAQ struct {
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	Answer   string `json:"answer,omitempty" yaml:"answer,omitempty"`
}

// Specialists is the card grid introducing the team or sub-services.
type Specialists struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Cards []Card `json:"cards,omitempty" yaml:"cards,omitempty"`
}

// Card is a single specialists card.
type Card struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
