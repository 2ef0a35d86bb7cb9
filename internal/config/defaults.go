package config

import "github.com/hyperjump/kembar/internal/models"

// DefaultExtensions are the content file extensions discovered when none are configured.
var DefaultExtensions = []string{".md", ".markdown", ".html", ".htm"}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kembar/data/reports.db"
	}

	v := &cfg.Validator
	if v.Severity == "" {
		v.Severity = models.SeverityWarning
	}
	if v.Thresholds.SimilarityThreshold == 0 {
		v.Thresholds.SimilarityThreshold = models.DefaultSimilarityThreshold
	}
	if v.Thresholds.BoilerplateMinOccurrences == 0 {
		v.Thresholds.BoilerplateMinOccurrences = models.DefaultBoilerplateMinOccurrences
	}
	if v.Thresholds.BoilerplateMinPhraseLength == 0 {
		v.Thresholds.BoilerplateMinPhraseLength = models.DefaultBoilerplateMinPhraseLength
	}

	if cfg.Content.Extensions == nil {
		cfg.Content.Extensions = append([]string(nil), DefaultExtensions...)
	}
	// Unset booleans default to true.
	if cfg.Content.Recursive == nil {
		t := true
		cfg.Content.Recursive = &t
	}
	if cfg.Content.ClearCachePerRun == nil {
		t := true
		cfg.Content.ClearCachePerRun = &t
	}
}
