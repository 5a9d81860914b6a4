// Package config holds the shared run configuration surface: typed
// validation errors, environment-resolved save paths, and run naming.
package config

import (
	"fmt"
	"os"
	"time"
)

// ConfigError reports an invalid configuration value. The run fails fast
// before any training work starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Errorf builds a ConfigError for the named field.
func Errorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Environment variable names for paths and the optional tracker.
const (
	EnvResultsDir = "FIELDFIT_RESULTS_DIR"
	EnvModelsDir  = "FIELDFIT_MODELS_DIR"
	EnvTrackURL   = "FIELDFIT_TRACK_URL"
)

// Paths captures where run artifacts and checkpoints are written.
type Paths struct {
	ResultsDir string
	ModelsDir  string
	TrackURL   string
}

// PathsFromEnv resolves save paths from the environment, defaulting to
// ./results and ./models. The tracker URL is empty when tracking is off.
func PathsFromEnv() Paths {
	p := Paths{
		ResultsDir: os.Getenv(EnvResultsDir),
		ModelsDir:  os.Getenv(EnvModelsDir),
		TrackURL:   os.Getenv(EnvTrackURL),
	}
	if p.ResultsDir == "" {
		p.ResultsDir = "results"
	}
	if p.ModelsDir == "" {
		p.ModelsDir = "models"
	}
	return p
}

// RunName builds the canonical run identifier
// {family}_{input}_{task}__{unixtime}.
func RunName(family, input, task string) string {
	return fmt.Sprintf("%s_%s_%s__%d", family, input, task, time.Now().Unix())
}
