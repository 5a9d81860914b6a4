package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorMessage(t *testing.T) {
	err := Errorf("batchSize", "must be > 0, got %d", -1)
	assert.Equal(t, "config: batchSize: must be > 0, got -1", err.Error())
}

func TestPathsFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvResultsDir, "")
	t.Setenv(EnvModelsDir, "")
	t.Setenv(EnvTrackURL, "")

	p := PathsFromEnv()
	assert.Equal(t, "results", p.ResultsDir)
	assert.Equal(t, "models", p.ModelsDir)
	assert.Empty(t, p.TrackURL)
}

func TestPathsFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvResultsDir, "/tmp/out")
	t.Setenv(EnvModelsDir, "/tmp/ckpt")
	t.Setenv(EnvTrackURL, "http://tracker:9000/log")

	p := PathsFromEnv()
	assert.Equal(t, "/tmp/out", p.ResultsDir)
	assert.Equal(t, "/tmp/ckpt", p.ModelsDir)
	assert.Equal(t, "http://tracker:9000/log", p.TrackURL)
}

func TestRunNameFormat(t *testing.T) {
	name := RunName("wire", "parrot", "image_denoise")
	assert.True(t, strings.HasPrefix(name, "wire_parrot_image_denoise__"))
	assert.NotContains(t, name[len("wire_parrot_image_denoise__"):], "_")
}
