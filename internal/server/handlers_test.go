package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kembar/internal/config"
	"github.com/hyperjump/kembar/internal/models"
	"github.com/hyperjump/kembar/internal/runner"
	"github.com/hyperjump/kembar/internal/storage"
	"github.com/hyperjump/kembar/internal/validator"
)

const plumbing = "Professional plumbing services in Canterbury with fast response times and fair pricing"

type testEnv struct {
	srv       *Server
	handler   http.Handler
	store     *storage.SQLiteStorage
	validator *validator.Uniqueness
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "reports.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	logger := zap.NewNop()
	v, err := validator.NewUniqueness(models.ValidatorConfig{}, validator.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	run := runner.New(v, runner.WithStorage(store), runner.WithLogger(logger))
	srv := NewServer(v, run, store, &config.ServerConfig{Host: "localhost", Port: 8080}, dbPath, logger)
	return &testEnv{srv: srv, handler: srv.Router(), store: store, validator: v}
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHandleValidate(t *testing.T) {
	e := newTestEnv(t)
	rec := models.ContentRecord{ID: "services/a", Category: "services", Body: plumbing}
	w := e.do(t, http.MethodPost, "/api/v1/validate", rec)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	var first models.ValidationResult
	decode(t, w, &first)
	if first.Category != models.CategoryService || !first.Passed {
		t.Errorf("first = %+v", first)
	}

	rec.ID = "services/b"
	w = e.do(t, http.MethodPost, "/api/v1/validate?severity=error", rec)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var second models.ValidationResult
	decode(t, w, &second)
	if second.Passed || len(second.Issues) != 1 || second.Issues[0].Code != models.CodeSimilarity {
		t.Errorf("second = %+v", second)
	}
	if second.Issues[0].Details.Matches[0].Score != 100 {
		t.Errorf("matches = %+v", second.Issues[0].Details.Matches)
	}
}

func TestHandleValidate_BadRequests(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"malformed", "/api/v1/validate", "{"},
		{"wrong field shape", "/api/v1/validate", `{"id":"a","category":"service","fields":{"faq":"not a list"}}`},
		{"missing id", "/api/v1/validate", `{"category":"service","body":"x"}`},
		{"unknown category", "/api/v1/validate", `{"id":"a","category":"blog","body":"x"}`},
		{"bad severity", "/api/v1/validate?severity=fatal", `{"id":"a","category":"service","body":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, tt.target, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400 (%s)", w.Code, w.Body.String())
			}
			var out map[string]string
			decode(t, w, &out)
			if out["error"] == "" {
				t.Error("error message should be set")
			}
		})
	}
	if e.validator.CacheSize() != 0 {
		t.Errorf("rejected requests touched the cache: %d", e.validator.CacheSize())
	}
}

func TestHandleRuns(t *testing.T) {
	e := newTestEnv(t)
	root := t.TempDir()
	for rel, content := range map[string]string{
		"services/a.md":    plumbing,
		"services/b.md":    plumbing,
		"locations/x.md":   "Harbour town with ferries to France and long shingle beaches",
		"uncategorized.md": "skipped",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	w := e.do(t, http.MethodPost, "/api/v1/runs", map[string]string{"root": root})
	if w.Code != http.StatusCreated {
		t.Fatalf("create run: got %d %s", w.Code, w.Body.String())
	}
	var report models.RunReport
	decode(t, w, &report)
	if report.Run.Summary.Total != 3 || report.Run.Summary.Skipped != 1 {
		t.Errorf("summary = %+v", report.Run.Summary)
	}

	w = e.do(t, http.MethodGet, "/api/v1/runs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list runs: got %d", w.Code)
	}
	var list struct {
		Runs  []models.Run `json:"runs"`
		Total int64        `json:"total"`
	}
	decode(t, w, &list)
	if list.Total != 1 || len(list.Runs) != 1 || list.Runs[0].ID != report.Run.ID {
		t.Errorf("list = %+v", list)
	}

	w = e.do(t, http.MethodGet, "/api/v1/runs/"+report.Run.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get run: got %d", w.Code)
	}
	var stored models.RunReport
	decode(t, w, &stored)
	if len(stored.Results) != 3 || stored.Run.Summary != report.Run.Summary {
		t.Errorf("stored = %+v", stored)
	}

	w = e.do(t, http.MethodGet, "/api/v1/cache", nil)
	var cache struct {
		Size       int            `json:"size"`
		Categories map[string]int `json:"categories"`
	}
	decode(t, w, &cache)
	if cache.Size != 3 || cache.Categories["service"] != 2 || cache.Categories["location"] != 1 {
		t.Errorf("cache = %+v", cache)
	}

	w = e.do(t, http.MethodDelete, "/api/v1/runs/"+report.Run.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete run: got %d", w.Code)
	}
	w = e.do(t, http.MethodGet, "/api/v1/runs/"+report.Run.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted run: got %d", w.Code)
	}
	w = e.do(t, http.MethodDelete, "/api/v1/runs/"+report.Run.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing run: got %d", w.Code)
	}
}

func TestHandleCreateRun_Errors(t *testing.T) {
	e := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "page.md")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"malformed", "{", http.StatusBadRequest},
		{"missing root", map[string]string{}, http.StatusBadRequest},
		{"not found", map[string]string{"root": filepath.Join(t.TempDir(), "missing")}, http.StatusNotFound},
		{"not a directory", map[string]string{"root": file}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/v1/runs", tt.body)
			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandleListRuns_Pagination(t *testing.T) {
	e := newTestEnv(t)
	for _, target := range []string{"/api/v1/runs?limit=0", "/api/v1/runs?limit=abc", "/api/v1/runs?offset=-1"} {
		if w := e.do(t, http.MethodGet, target, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", target, w.Code)
		}
	}
	w := e.do(t, http.MethodGet, "/api/v1/runs?limit=500", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	var list struct {
		Runs []models.Run `json:"runs"`
	}
	decode(t, w, &list)
	if list.Runs == nil || len(list.Runs) != 0 {
		t.Errorf("empty list should encode as [], got %v", list.Runs)
	}
}

func TestHandleClearCache(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodPost, "/api/v1/validate", models.ContentRecord{ID: "services/a", Category: models.CategoryService, Body: plumbing})
	if e.validator.CacheSize() != 1 {
		t.Fatalf("cache size = %d", e.validator.CacheSize())
	}
	w := e.do(t, http.MethodDelete, "/api/v1/cache", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
	if e.validator.CacheSize() != 0 {
		t.Errorf("cache not cleared: %d", e.validator.CacheSize())
	}
}

func TestHandleStatusAndHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/v1/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var status map[string]interface{}
	decode(t, w, &status)
	for _, key := range []string{"runs", "results", "cache_size", "validator", "database_path", "disk_usage_bytes", "disk_usage"} {
		if _, ok := status[key]; !ok {
			t.Errorf("status missing %q: %v", key, status)
		}
	}

	w = e.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health: got %d", w.Code)
	}
	var health map[string]string
	decode(t, w, &health)
	if health["status"] != "ok" {
		t.Errorf("health = %v", health)
	}
}
