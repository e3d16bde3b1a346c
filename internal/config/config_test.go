package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []float64{0, 5, 10, 15, 25}, cfg.Analysis.TierBoundaries)
	assert.InDelta(t, 0.5, cfg.Analysis.DominanceThreshold, 0.001)
	assert.Equal(t, 20, cfg.Analysis.ObservationWindow)
	assert.Equal(t, 8000, cfg.Places.SearchRadiusM)
	assert.Equal(t, 4, cfg.Survey.Concurrency)
	assert.Equal(t, 5, cfg.Scoring.EasyMaxCompetitors)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
business:
  name: Sparkle Maids
  domain: sparklemaids.com
base:
  name: Inglewood, CA
  lat: 33.9616
  lng: -118.3531
keywords:
  - house cleaning
  - maid service
cities:
  - name: Hawthorne
    lat: 33.9164
    lng: -118.3526
    zip_code: "90250"
places:
  api_key: test-key
analysis:
  dominance_threshold: 0.6
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Sparkle Maids", cfg.Business.Name)
	assert.Equal(t, []string{"house cleaning", "maid service"}, cfg.Keywords)
	require.Len(t, cfg.Cities, 1)
	assert.Equal(t, "Hawthorne", cfg.Cities[0].Name)
	assert.InDelta(t, 33.9164, cfg.Cities[0].Lat, 0.0001)
	assert.InDelta(t, 0.6, cfg.Analysis.DominanceThreshold, 0.001)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RANKRADIUS_LOG_LEVEL", "debug")
	t.Setenv("RANKRADIUS_PLACES_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "env-key", cfg.Places.APIKey)
}

func TestMatchTerms(t *testing.T) {
	cfg := &Config{Business: BusinessConfig{Name: "Sparkle Maids", Domain: "sparklemaids.com"}}
	assert.Equal(t, []string{"Sparkle Maids", "sparklemaids.com"}, cfg.MatchTerms())

	cfg.Business.MatchTerms = []string{"sparkle"}
	assert.Equal(t, []string{"sparkle"}, cfg.MatchTerms())
}

func TestPrimaryKeyword(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.PrimaryKeyword())

	cfg.Keywords = []string{"house cleaning", "maid service"}
	assert.Equal(t, "house cleaning", cfg.PrimaryKeyword())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Business: BusinessConfig{Name: "Sparkle Maids"},
			Keywords: []string{"house cleaning"},
			Cities:   []CityConfig{{Name: "Hawthorne", Lat: 33.9164, Lng: -118.3526}},
			Places:   PlacesConfig{APIKey: "k"},
			Analysis: AnalysisConfig{DominanceThreshold: 0.5, MaxSkipFraction: 0.25, ObservationWindow: 20},
			Survey:   SurveyConfig{Concurrency: 4},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no business identifier", func(c *Config) { c.Business = BusinessConfig{} }, "match_terms"},
		{"no keywords", func(c *Config) { c.Keywords = nil }, "keyword"},
		{"no cities", func(c *Config) { c.Cities = nil }, "city"},
		{"no api key", func(c *Config) { c.Places.APIKey = "" }, "api_key"},
		{"bad threshold", func(c *Config) { c.Analysis.DominanceThreshold = 1.5 }, "dominance_threshold"},
		{"bad skip fraction", func(c *Config) { c.Analysis.MaxSkipFraction = -0.1 }, "max_skip_fraction"},
		{"zero concurrency", func(c *Config) { c.Survey.Concurrency = 0 }, "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
