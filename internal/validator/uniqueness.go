package validator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kembar/internal/boilerplate"
	"github.com/hyperjump/kembar/internal/corpus"
	"github.com/hyperjump/kembar/internal/extract"
	"github.com/hyperjump/kembar/internal/fingerprint"
	"github.com/hyperjump/kembar/internal/models"
	"github.com/hyperjump/kembar/internal/similarity"
)

// Reporting limits for issue details.
const (
	maxReportedMatches = 3
	maxReportedPhrases = 5
)

// UniquenessName is the name the uniqueness validator reports.
const UniquenessName = "uniqueness"

// Uniqueness flags records that are near-duplicates of earlier records in the same
// category and reports boilerplate phrases shared across the corpus.
type Uniqueness struct {
	cfg    models.ValidatorConfig
	cache  *corpus.Cache
	logger *zap.Logger // optional

	lanesMu sync.Mutex
	lanes   map[models.Category]*sync.Mutex
}

// Option configures a Uniqueness validator.
type Option func(*Uniqueness)

// WithLogger sets a logger for per-record debug output and cache overwrite warnings.
func WithLogger(l *zap.Logger) Option {
	return func(u *Uniqueness) { u.logger = l }
}

// WithCache shares an existing corpus cache instead of creating a new one.
func WithCache(c *corpus.Cache) Option {
	return func(u *Uniqueness) {
		if c != nil {
			u.cache = c
		}
	}
}

// NewUniqueness creates a uniqueness validator. cfg is validated and defaulted.
func NewUniqueness(cfg models.ValidatorConfig, opts ...Option) (*Uniqueness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid validator config: %w", err)
	}
	u := &Uniqueness{
		cfg:   cfg,
		cache: corpus.NewCache(),
		lanes: make(map[models.Category]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Name implements Validator.
func (u *Uniqueness) Name() string {
	return UniquenessName
}

// Config returns the effective configuration.
func (u *Uniqueness) Config() models.ValidatorConfig {
	return u.cfg
}

// Validate implements Validator using the configuration given at construction.
func (u *Uniqueness) Validate(ctx context.Context, rec *models.ContentRecord) (*models.ValidationResult, error) {
	return u.validate(ctx, rec, u.cfg)
}

// ValidateWith validates rec with a per-call configuration against the shared cache.
func (u *Uniqueness) ValidateWith(ctx context.Context, rec *models.ContentRecord, cfg models.ValidatorConfig) (*models.ValidationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid validator config: %w", err)
	}
	return u.validate(ctx, rec, cfg)
}

func (u *Uniqueness) validate(ctx context.Context, rec *models.ContentRecord, cfg models.ValidatorConfig) (*models.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("nil content record")
	}
	if !rec.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCategory, rec.Category)
	}
	start := time.Now()

	text := fingerprint.Normalize(extract.FullText(rec))
	fp := fingerprint.Fingerprint(text)
	t := cfg.Thresholds

	// Insert and scan happen as one step per category so parallel lanes never see
	// a half-written corpus.
	lane := u.lane(rec.Category)
	lane.Lock()
	replaced := u.cache.Put(rec.ID, fp, text, rec.Category)
	scan := similarity.Scan(rec.ID, fp, rec.Category, u.cache, t.SimilarityThreshold)
	var phrases []models.BoilerplatePhrase
	if u.cache.Size() >= t.BoilerplateMinOccurrences {
		found := boilerplate.Detect(u.cache, t.BoilerplateMinPhraseLength, t.BoilerplateMinOccurrences)
		phrases = found.For(rec.ID, maxReportedPhrases)
	}
	lane.Unlock()

	if replaced && u.logger != nil {
		u.logger.Warn("record re-validated, earlier comparisons against it are not rescored",
			zap.String("id", rec.ID), zap.String("category", string(rec.Category)))
	}

	result := &models.ValidationResult{
		ID:       rec.ID,
		Category: rec.Category,
		Issues:   []models.Issue{},
		Metrics: models.Metrics{
			FingerprintSize:  fp.Len(),
			SimilarDocuments: len(scan.Matches),
			MaxSimilarity:    scan.MaxScore,
			Compared:         scan.Compared,
		},
	}
	if len(scan.Matches) > 0 {
		result.Issues = append(result.Issues, similarityIssue(rec.Category, scan.Matches, cfg.Severity))
	}
	if len(phrases) > 0 {
		result.Issues = append(result.Issues, boilerplateIssue(phrases, t.BoilerplateMinOccurrences))
	}
	result.Passed = !result.HasErrors()
	result.Duration = time.Since(start)

	if u.logger != nil {
		u.logger.Debug("record validated",
			zap.String("id", result.ID),
			zap.String("category", string(result.Category)),
			zap.Int("fingerprint_size", result.Metrics.FingerprintSize),
			zap.Int("similar_documents", result.Metrics.SimilarDocuments),
			zap.Int("max_similarity", result.Metrics.MaxSimilarity),
			zap.Duration("duration", result.Duration),
		)
	}
	return result, nil
}

func similarityIssue(category models.Category, matches []models.SimilarityMatch, severity models.Severity) models.Issue {
	top := similarity.Top(matches, maxReportedMatches)
	return models.Issue{
		Severity:   severity,
		Code:       models.CodeSimilarity,
		Message:    fmt.Sprintf("Content is %d%% similar to %s (%d similar %s page(s))", top[0].Score, top[0].ID, len(matches), category),
		Suggestion: "Rewrite the overlapping sections so this page describes what is specific to it",
		Details:    models.IssueDetails{Matches: top},
	}
}

func boilerplateIssue(phrases []models.BoilerplatePhrase, minOccurrences int) models.Issue {
	return models.Issue{
		Severity:   models.SeverityInfo,
		Code:       models.CodeBoilerplate,
		Message:    fmt.Sprintf("%d phrase(s) repeated across at least %d pages", len(phrases), minOccurrences),
		Suggestion: "Vary repeated phrasing between pages",
		Details:    models.IssueDetails{Phrases: phrases},
	}
}

func (u *Uniqueness) lane(c models.Category) *sync.Mutex {
	u.lanesMu.Lock()
	defer u.lanesMu.Unlock()
	l, ok := u.lanes[c]
	if !ok {
		l = &sync.Mutex{}
		u.lanes[c] = l
	}
	return l
}

// ClearCache drops all accumulated corpus state.
func (u *Uniqueness) ClearCache() {
	u.cache.Clear()
}

// CacheSize returns the number of records in the corpus cache.
func (u *Uniqueness) CacheSize() int {
	return u.cache.Size()
}

// CategorySizes returns the number of cached records per category.
func (u *Uniqueness) CategorySizes() map[models.Category]int {
	return u.cache.CategorySizes()
}
