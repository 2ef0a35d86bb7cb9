package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kembar/internal/models"
	"github.com/hyperjump/kembar/internal/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var rec models.ContentRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(rec.ID) == "" {
		s.respondError(w, http.StatusBadRequest, "id is required")
		return
	}
	category, err := models.ParseCategory(string(rec.Category))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec.Category = category

	cfg := s.validator.Config()
	if sev := r.URL.Query().Get("severity"); sev != "" {
		cfg.Severity = models.Severity(sev)
		if err := cfg.Validate(); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	s.logger.Debug("validate request", zap.String("id", rec.ID), zap.String("category", string(rec.Category)))
	result, err := s.validator.ValidateWith(r.Context(), &rec, cfg)
	if err != nil {
		s.logger.Error("validation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

type runRequest struct {
	Root string `json:"root"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Root == "" {
		s.respondError(w, http.StatusBadRequest, "root is required")
		return
	}
	abs, err := filepath.Abs(req.Root)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "root is not a directory")
		return
	}
	s.logger.Debug("run request", zap.String("root", abs))
	report, err := s.runner.Run(r.Context(), abs)
	if err != nil {
		s.logger.Error("run failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, report)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	ctx := r.Context()
	runs, err := s.storage.ListRuns(ctx, offset, limit)
	if err != nil {
		s.logger.Error("list runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountRuns(ctx)
	if err != nil {
		s.logger.Error("count runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []*models.Run{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"runs": runs, "total": total})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	run, err := s.storage.GetRun(ctx, id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "run not found")
		return
	}
	results, err := s.storage.ListResults(ctx, id)
	if err != nil {
		s.logger.Error("list results failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []*models.ValidationResult{}
	}
	s.respondJSON(w, http.StatusOK, &models.RunReport{Run: *run, Results: results})
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	if _, err := s.storage.GetRun(ctx, id); err != nil {
		s.respondError(w, http.StatusNotFound, "run not found")
		return
	}
	s.logger.Debug("delete run request", zap.String("id", id))
	if err := s.storage.DeleteRun(ctx, id); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"size":       s.validator.CacheSize(),
		"categories": s.validator.CategorySizes(),
	})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("clear cache request", zap.Int("size", s.validator.CacheSize()))
	s.validator.ClearCache()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runCount, err := s.storage.CountRuns(ctx)
	if err != nil {
		s.logger.Error("status: count runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resultCount, err := s.storage.CountResults(ctx)
	if err != nil {
		s.logger.Error("status: count results failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"runs":       runCount,
		"results":    resultCount,
		"cache_size": s.validator.CacheSize(),
		"validator":  s.validator.Config(),
	}
	if s.dbPath != "" {
		resp["database_path"] = s.dbPath
		if u, err := storage.DatabaseSize(s.dbPath); err == nil {
			resp["disk_usage_bytes"] = u.Total()
			resp["disk_usage"] = u
		} else {
			s.logger.Warn("status: database size unavailable", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
