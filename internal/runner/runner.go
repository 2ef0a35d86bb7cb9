// Package runner discovers content files under a root, validates them as one corpus run,
// and aggregates the results into a report.
package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/kembar/internal/config"
	"github.com/hyperjump/kembar/internal/extract"
	"github.com/hyperjump/kembar/internal/fileid"
	"github.com/hyperjump/kembar/internal/models"
	"github.com/hyperjump/kembar/internal/storage"
	"github.com/hyperjump/kembar/internal/validator"
)

// Runner validates every content file under a root with one validator.
type Runner struct {
	validator  validator.Validator
	extractor  *extract.Extractor
	storage    storage.Storage // optional; when set, reports are persisted
	extensions []string
	recursive  bool
	parallel   bool
	clearCache bool
	logger     *zap.Logger // optional

	// runMu serializes runs: each run owns the validator cache from clear to summary.
	runMu sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a logger for run progress and skipped files.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithStorage persists each run and its results.
func WithStorage(s storage.Storage) Option {
	return func(r *Runner) { r.storage = s }
}

// WithExtensions sets which file extensions are content. Empty keeps the defaults.
func WithExtensions(exts []string) Option {
	return func(r *Runner) {
		if len(exts) > 0 {
			r.extensions = exts
		}
	}
}

// WithRecursive controls whether subdirectories are scanned.
func WithRecursive(recursive bool) Option {
	return func(r *Runner) { r.recursive = recursive }
}

// WithParallel validates each category in its own goroutine. Records within a
// category are still validated in discovery order.
func WithParallel(parallel bool) Option {
	return func(r *Runner) { r.parallel = parallel }
}

// WithClearCache clears stateful validators before each run.
func WithClearCache(clear bool) Option {
	return func(r *Runner) { r.clearCache = clear }
}

// New creates a runner for v. By default it scans recursively, sequentially, and
// clears the validator cache at the start of each run.
func New(v validator.Validator, opts ...Option) *Runner {
	r := &Runner{
		validator:  v,
		extractor:  extract.NewExtractor(),
		extensions: config.DefaultExtensions,
		recursive:  true,
		clearCache: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type loaded struct {
	path   string
	record *models.ContentRecord
}

// Run validates every content file under root and returns the report. Files that cannot
// be loaded are skipped and listed in the report. Cancellation is checked between records.
// Concurrent calls are serialized. A run that fails after it was stored is deleted again.
func (r *Runner) Run(ctx context.Context, root string) (*models.RunReport, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	paths, err := r.Discover(abs)
	if err != nil {
		return nil, err
	}

	report := &models.RunReport{
		Run: models.Run{ID: uuid.New().String(), Root: abs, StartedAt: time.Now()},
	}
	if r.logger != nil {
		r.logger.Info("run started", zap.String("run_id", report.Run.ID), zap.String("root", abs), zap.Int("files", len(paths)))
	}

	var records []loaded
	for _, p := range paths {
		rec, err := r.extractor.Load(abs, p)
		if err != nil {
			report.Skipped = append(report.Skipped, models.SkippedFile{Path: p, Reason: err.Error()})
			if r.logger != nil {
				r.logger.Warn("skipping content file", zap.String("path", p), zap.Error(err))
			}
			continue
		}
		records = append(records, loaded{path: p, record: rec})
	}

	r.runMu.Lock()
	defer r.runMu.Unlock()

	if s, ok := r.validator.(validator.Stateful); ok && r.clearCache {
		s.ClearCache()
	}
	if r.storage != nil {
		if err := r.storage.CreateRun(ctx, &report.Run); err != nil {
			return nil, fmt.Errorf("failed to store run: %w", err)
		}
	}

	results := make([]*models.ValidationResult, len(records))
	if r.parallel {
		err = r.validateLanes(ctx, records, results)
	} else {
		err = r.validateSequential(ctx, records, results)
	}
	if err != nil {
		r.discard(ctx, report.Run.ID)
		return nil, err
	}

	report.Results = results
	for _, res := range results {
		report.Run.Summary.Add(res)
	}
	report.Run.Summary.Skipped = len(report.Skipped)
	report.Run.FinishedAt = time.Now()

	if r.storage != nil {
		if err := r.storage.BatchSaveResults(ctx, report.Run.ID, results); err != nil {
			r.discard(ctx, report.Run.ID)
			return nil, fmt.Errorf("failed to store results: %w", err)
		}
		if err := r.storage.FinishRun(ctx, &report.Run); err != nil {
			r.discard(ctx, report.Run.ID)
			return nil, fmt.Errorf("failed to finish run: %w", err)
		}
	}
	if r.logger != nil {
		s := report.Run.Summary
		r.logger.Info("run finished",
			zap.String("run_id", report.Run.ID),
			zap.Int("total", s.Total),
			zap.Int("failed", s.Failed),
			zap.Int("skipped", s.Skipped),
			zap.Duration("elapsed", report.Run.FinishedAt.Sub(report.Run.StartedAt)),
		)
	}
	return report, nil
}

// discard removes a stored run that did not complete. ctx may already be canceled.
func (r *Runner) discard(ctx context.Context, runID string) {
	if r.storage == nil {
		return
	}
	if err := r.storage.DeleteRun(context.WithoutCancel(ctx), runID); err != nil && r.logger != nil {
		r.logger.Warn("failed to remove incomplete run", zap.String("run_id", runID), zap.Error(err))
	}
}

func (r *Runner) validateSequential(ctx context.Context, records []loaded, results []*models.ValidationResult) error {
	for i, l := range records {
		res, err := r.validator.Validate(ctx, l.record)
		if err != nil {
			return fmt.Errorf("validate %s: %w", l.path, err)
		}
		results[i] = res
	}
	return nil
}

// validateLanes runs one goroutine per category. Categories never compare against each
// other, so lanes only share the validator's internally synchronized cache.
func (r *Runner) validateLanes(ctx context.Context, records []loaded, results []*models.ValidationResult) error {
	lanes := make(map[models.Category][]int)
	var order []models.Category
	for i, l := range records {
		c := l.record.Category
		if _, ok := lanes[c]; !ok {
			order = append(order, c)
		}
		lanes[c] = append(lanes[c], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range order {
		idxs := lanes[c]
		g.Go(func() error {
			for _, i := range idxs {
				res, err := r.validator.Validate(gctx, records[i].record)
				if err != nil {
					return fmt.Errorf("validate %s: %w", records[i].path, err)
				}
				results[i] = res
			}
			return nil
		})
	}
	return g.Wait()
}

// Discover returns the content files under root in lexical order. Hidden directories
// are not entered.
func (r *Runner) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !r.recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if fileid.MatchExtension(path, r.extensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content root: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
