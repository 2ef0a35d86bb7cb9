package models

import (
	"testing"
)

func TestValidatorConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *ValidatorConfig
		wantErr bool
	}{
		{"zero value gets defaults", &ValidatorConfig{}, false},
		{"error severity", &ValidatorConfig{Severity: SeverityError}, false},
		{"info severity rejected", &ValidatorConfig{Severity: SeverityInfo}, true},
		{"unknown severity rejected", &ValidatorConfig{Severity: "fatal"}, true},
		{"threshold above 100", &ValidatorConfig{Thresholds: Thresholds{SimilarityThreshold: 101}}, true},
		{"negative threshold", &ValidatorConfig{Thresholds: Thresholds{SimilarityThreshold: -1}}, true},
		{"single occurrence is not boilerplate", &ValidatorConfig{Thresholds: Thresholds{BoilerplateMinOccurrences: 1}}, true},
		{"negative phrase length", &ValidatorConfig{Thresholds: Thresholds{BoilerplateMinPhraseLength: -3}}, true},
		{"explicit values kept", &ValidatorConfig{Thresholds: Thresholds{SimilarityThreshold: 50, BoilerplateMinOccurrences: 4, BoilerplateMinPhraseLength: 6}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatorConfig_ValidateDefaults(t *testing.T) {
	cfg := &ValidatorConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", cfg.Severity)
	}
	if cfg.Thresholds.SimilarityThreshold != 70 {
		t.Errorf("similarity threshold = %d, want 70", cfg.Thresholds.SimilarityThreshold)
	}
	if cfg.Thresholds.BoilerplateMinOccurrences != 3 {
		t.Errorf("min occurrences = %d, want 3", cfg.Thresholds.BoilerplateMinOccurrences)
	}
	if cfg.Thresholds.BoilerplateMinPhraseLength != 5 {
		t.Errorf("phrase length = %d, want 5", cfg.Thresholds.BoilerplateMinPhraseLength)
	}

	explicit := &ValidatorConfig{Thresholds: Thresholds{SimilarityThreshold: 40}}
	if err := explicit.Validate(); err != nil {
		t.Fatal(err)
	}
	if explicit.Thresholds.SimilarityThreshold != 40 {
		t.Errorf("explicit threshold overwritten: got %d", explicit.Thresholds.SimilarityThreshold)
	}
}
