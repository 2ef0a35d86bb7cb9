package models

import "time"

// Severity is the weight of a validation issue. Only SeverityError fails a record.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Stable issue codes consumed by downstream report readers.
const (
	CodeSimilarity  = "UNIQ_001"
	CodeBoilerplate = "UNIQ_002"
)

// SimilarityMatch is another record of the same category and its similarity score (0-100).
type SimilarityMatch struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// BoilerplatePhrase is a repeated phrase and the number of distinct records it occurs in.
type BoilerplatePhrase struct {
	Phrase      string `json:"phrase"`
	Occurrences int    `json:"occurrences"`
}

// IssueDetails carries the evidence behind an issue. Only the field matching the code is set.
type IssueDetails struct {
	Matches []SimilarityMatch   `json:"matches,omitempty"`
	Phrases []BoilerplatePhrase `json:"phrases,omitempty"`
}

// Issue is a single finding on a record.
type Issue struct {
	Severity   Severity     `json:"severity"`
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Suggestion string       `json:"suggestion,omitempty"`
	Details    IssueDetails `json:"details"`
}

// Metrics summarizes the comparison work done for one record.
type Metrics struct {
	FingerprintSize  int `json:"fingerprint_size"`
	SimilarDocuments int `json:"similar_documents"`
	MaxSimilarity    int `json:"max_similarity"`
	Compared         int `json:"compared"`
}

// ValidationResult is the outcome of validating one record.
type ValidationResult struct {
	ID       string        `json:"id"`
	Category Category      `json:"category"`
	Passed   bool          `json:"passed"`
	Issues   []Issue       `json:"issues"`
	Metrics  Metrics       `json:"metrics"`
	Duration time.Duration `json:"duration_ns"`
}

// HasErrors reports whether any issue has error severity.
func (r *ValidationResult) HasErrors() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run is one corpus pass over a content root.
type Run struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Summary    Summary   `json:"summary"`
}

// Summary aggregates result counts for a run.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Skipped  int `json:"skipped"`
}

// Add counts one result into the summary.
func (s *Summary) Add(r *ValidationResult) {
	s.Total++
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
	for _, is := range r.Issues {
		switch is.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Infos++
		}
	}
}

// SkippedFile is a content file the runner could not turn into a record.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// RunReport is a run with its per-record results in discovery order.
type RunReport struct {
	Run     Run                 `json:"run"`
	Results []*ValidationResult `json:"results"`
	Skipped []SkippedFile       `json:"skipped,omitempty"`
}
