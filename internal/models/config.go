package models

import "fmt"

// Defaults for ValidatorConfig.
const (
	DefaultSimilarityThreshold        = 70
	DefaultBoilerplateMinOccurrences  = 3
	DefaultBoilerplateMinPhraseLength = 5
)

// Thresholds tune the similarity and boilerplate checks.
type Thresholds struct {
	SimilarityThreshold        int `json:"similarityThreshold,omitempty" yaml:"similarity_threshold"`
	BoilerplateMinOccurrences  int `json:"boilerplateMinOccurrences,omitempty" yaml:"boilerplate_min_occurrences"`
	BoilerplateMinPhraseLength int `json:"boilerplateMinPhraseLength,omitempty" yaml:"boilerplate_min_phrase_length"`
}

// ValidatorConfig is the per-validator configuration supplied by the host.
type ValidatorConfig struct {
	// Severity applies to similarity issues; boilerplate issues are always info.
	Severity   Severity   `json:"severity,omitempty" yaml:"severity"`
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
}

// Validate fills defaults for zero values and rejects values the engine cannot use.
func (c *ValidatorConfig) Validate() error {
	if c.Severity == "" {
		c.Severity = SeverityWarning
	}
	if c.Severity != SeverityWarning && c.Severity != SeverityError {
		return fmt.Errorf("severity must be %q or %q, got %q", SeverityWarning, SeverityError, c.Severity)
	}
	t := &c.Thresholds
	if t.SimilarityThreshold == 0 {
		t.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if t.SimilarityThreshold < 0 || t.SimilarityThreshold > 100 {
		return fmt.Errorf("similarity threshold must be within 1-100, got %d", t.SimilarityThreshold)
	}
	if t.BoilerplateMinOccurrences == 0 {
		t.BoilerplateMinOccurrences = DefaultBoilerplateMinOccurrences
	}
	if t.BoilerplateMinOccurrences < 2 {
		return fmt.Errorf("boilerplate min occurrences must be at least 2, got %d", t.BoilerplateMinOccurrences)
	}
	if t.BoilerplateMinPhraseLength == 0 {
		t.BoilerplateMinPhraseLength = DefaultBoilerplateMinPhraseLength
	}
	if t.BoilerplateMinPhraseLength < 1 {
		return fmt.Errorf("boilerplate phrase length must be positive, got %d", t.BoilerplateMinPhraseLength)
	}
	return nil
}
