package models

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"service", CategoryService, false},
		{"Services", CategoryService, false},
		{" location ", CategoryLocation, false},
		{"locations", CategoryLocation, false},
		{"blog", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("ParseCategory(%q) error should wrap ErrUnknownCategory, got %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFields_UnmarshalYAML(t *testing.T) {
	src := `
description: Emergency plumbing in Canterbury
shortDescription: 24/7 plumbers
hero:
  title: Plumbing
  subtitle: Fast response
  description: We fix leaks
about:
  content: Family run since 1990
  items:
    - Boilers
    - Radiators
faq:
  - question: Do you charge call-out fees?
    answer: No call-out fees on weekdays.
specialists:
  title: Our specialists
  cards:
    - title: Gas engineers
      description: Gas Safe registered
`
	var f Fields
	if err := yaml.Unmarshal([]byte(src), &f); err != nil {
		t.Fatal(err)
	}
	if f.Description != "Emergency plumbing in Canterbury" || f.ShortDescription != "24/7 plumbers" {
		t.Errorf("descriptions: %+v", f)
	}
	if f.Hero == nil || f.Hero.Title != "Plumbing" || f.Hero.Subtitle != "Fast response" || f.Hero.Description != "We fix leaks" {
		t.Errorf("hero: %+v", f.Hero)
	}
	if f.About == nil || f.About.Content != "Family run since 1990" || len(f.About.Items) != 2 {
		t.Errorf("about: %+v", f.About)
	}
	if len(f.FAQ) != 1 || f.FAQ[0].Answer != "No call-out fees on weekdays." {
		t.Errorf("faq: %+v", f.FAQ)
	}
	if f.Specialists == nil || len(f.Specialists.Cards) != 1 || f.Specialists.Cards[0].Description != "Gas Safe registered" {
		t.Errorf("specialists: %+v", f.Specialists)
	}
}

func TestFields_UnmarshalYAMLSkipsMismatchedShapes(t *testing.T) {
	src := `
description: [not, a, string]
intro: 42
hero: just a string
about:
  content: Kept
  items: not a list
faq:
  - plain scalar item
  - question: Kept question
    answer: {nested: map}
specialists:
  cards: nope
`
	var f Fields
	if err := yaml.Unmarshal([]byte(src), &f); err != nil {
		t.Fatalf("lenient decode should not fail: %v", err)
	}
	if f.Description != "" || f.Intro != "" {
		t.Errorf("mismatched scalars should be skipped: %+v", f)
	}
	if f.Hero != nil {
		t.Errorf("hero given as string should be skipped, got %+v", f.Hero)
	}
	if f.About == nil || f.About.Content != "Kept" || f.About.Items != nil {
		t.Errorf("about: %+v", f.About)
	}
	if len(f.FAQ) != 1 || f.FAQ[0].Question != "Kept question" || f.FAQ[0].Answer != "" {
		t.Errorf("faq: %+v", f.FAQ)
	}
	if f.Specialists == nil || len(f.Specialists.Cards) != 0 {
		t.Errorf("specialists: %+v", f.Specialists)
	}
}

func TestSummary_Add(t *testing.T) {
	var s Summary
	s.Add(&ValidationResult{Passed: true, Issues: []Issue{{Severity: SeverityInfo}}})
	s.Add(&ValidationResult{Passed: false, Issues: []Issue{{Severity: SeverityError}, {Severity: SeverityInfo}}})
	s.Add(&ValidationResult{Passed: true, Issues: []Issue{{Severity: SeverityWarning}}})
	if s.Total != 3 || s.Passed != 2 || s.Failed != 1 {
		t.Errorf("counts: %+v", s)
	}
	if s.Errors != 1 || s.Warnings != 1 || s.Infos != 2 {
		t.Errorf("severities: %+v", s)
	}
}

func TestValidationResult_HasErrors(t *testing.T) {
	r := &ValidationResult{Issues: []Issue{{Severity: SeverityWarning}, {Severity: SeverityInfo}}}
	if r.HasErrors() {
		t.Error("warnings and infos are not errors")
	}
	r.Issues = append(r.Issues, Issue{Severity: SeverityError})
	if !r.HasErrors() {
		t.Error("expected HasErrors with an error issue")
	}
}
