package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/kembar/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "reports.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(id string, passed bool) *models.ValidationResult {
	r := &models.ValidationResult{
		ID:       id,
		Category: models.CategoryService,
		Passed:   passed,
		Metrics:  models.Metrics{FingerprintSize: 10, SimilarDocuments: 1, MaxSimilarity: 100, Compared: 2},
		Duration: 1500 * time.Microsecond,
	}
	if !passed {
		r.Issues = []models.Issue{{
			Severity: models.SeverityError,
			Code:     models.CodeSimilarity,
			Message:  "similar",
			Details:  models.IssueDetails{Matches: []models.SimilarityMatch{{ID: "services/other", Score: 100}}},
		}}
	}
	return r
}

func TestSQLiteStorage_RunLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	run := &models.Run{ID: "run-1", Root: "/srv/content"}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	if run.StartedAt.IsZero() {
		t.Error("StartedAt should be set")
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Root != "/srv/content" || !got.FinishedAt.IsZero() {
		t.Errorf("got %+v", got)
	}

	run.Summary = models.Summary{Total: 2, Passed: 1, Failed: 1, Errors: 1}
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	got, err = store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.FinishedAt.IsZero() {
		t.Error("FinishedAt should be stored")
	}
	if got.Summary != run.Summary {
		t.Errorf("summary = %+v, want %+v", got.Summary, run.Summary)
	}

	if _, err := store.GetRun(ctx, "missing"); err == nil || !strings.Contains(err.Error(), "run not found") {
		t.Errorf("GetRun missing: %v", err)
	}
	if err := store.FinishRun(ctx, &models.Run{ID: "missing"}); err == nil {
		t.Error("FinishRun on unknown run should fail")
	}
}

func TestSQLiteStorage_Results(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if err := store.CreateRun(ctx, &models.Run{ID: "run-1", Root: "/content"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveResult(ctx, "run-1", sampleResult("services/a", true)); err != nil {
		t.Fatal(err)
	}
	batch := []*models.ValidationResult{sampleResult("services/b", false), sampleResult("services/c", true)}
	if err := store.BatchSaveResults(ctx, "run-1", batch); err != nil {
		t.Fatal(err)
	}

	results, err := store.ListResults(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"services/a", "services/b", "services/c"} {
		if results[i].ID != want {
			t.Errorf("result %d = %s, want %s", i, results[i].ID, want)
		}
	}
	b := results[1]
	if b.Passed || b.Category != models.CategoryService || b.Duration != 1500*time.Microsecond {
		t.Errorf("result b = %+v", b)
	}
	if len(b.Issues) != 1 || b.Issues[0].Code != models.CodeSimilarity || b.Issues[0].Details.Matches[0].Score != 100 {
		t.Errorf("issues = %+v", b.Issues)
	}
	if results[0].Issues == nil || len(results[0].Issues) != 0 {
		t.Errorf("passing result should have empty issues, got %#v", results[0].Issues)
	}
	if b.Metrics.MaxSimilarity != 100 || b.Metrics.Compared != 2 {
		t.Errorf("metrics = %+v", b.Metrics)
	}

	n, err := store.CountResults(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountResults = %d, %v", n, err)
	}
}

func TestSQLiteStorage_ListAndDeleteRuns(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		run := &models.Run{ID: id, Root: "/content", StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.CreateRun(ctx, run); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SaveResult(ctx, "mid", sampleResult("services/a", true)); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListRuns(ctx, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "mid" {
		t.Errorf("ListRuns(0, 2) = %v", runIDs(list))
	}
	list, err = store.ListRuns(ctx, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "old" {
		t.Errorf("ListRuns(2, 10) = %v", runIDs(list))
	}

	if err := store.DeleteRun(ctx, "mid"); err != nil {
		t.Fatal(err)
	}
	n, err := store.CountRuns(ctx)
	if err != nil || n != 2 {
		t.Errorf("CountRuns = %d, %v", n, err)
	}
	results, err := store.ListResults(ctx, "mid")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results of deleted run remain: %d", len(results))
	}
}

func runIDs(runs []*models.Run) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}
