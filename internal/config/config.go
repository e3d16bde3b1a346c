// Package config loads the application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rankradius/rankradius/internal/analysis"
)

// Config holds the full application configuration.
type Config struct {
	Business BusinessConfig         `yaml:"business" mapstructure:"business"`
	Base     BaseConfig             `yaml:"base" mapstructure:"base"`
	Keywords []string               `yaml:"keywords" mapstructure:"keywords"`
	Cities   []CityConfig           `yaml:"cities" mapstructure:"cities"`
	Analysis AnalysisConfig         `yaml:"analysis" mapstructure:"analysis"`
	Scoring  analysis.ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Places   PlacesConfig           `yaml:"places" mapstructure:"places"`
	Survey   SurveyConfig           `yaml:"survey" mapstructure:"survey"`
	Store    StoreConfig            `yaml:"store" mapstructure:"store"`
	Log      LogConfig              `yaml:"log" mapstructure:"log"`
}

// BusinessConfig identifies the target business in ranked results.
type BusinessConfig struct {
	Name       string   `yaml:"name" mapstructure:"name"`
	Domain     string   `yaml:"domain" mapstructure:"domain"`
	MatchTerms []string `yaml:"match_terms" mapstructure:"match_terms"`
}

// BaseConfig is the business base location all distances are measured from.
type BaseConfig struct {
	Name string  `yaml:"name" mapstructure:"name"`
	Lat  float64 `yaml:"lat" mapstructure:"lat"`
	Lng  float64 `yaml:"lng" mapstructure:"lng"`
}

// CityConfig is one candidate city to sample.
type CityConfig struct {
	Name    string  `yaml:"name" mapstructure:"name"`
	Lat     float64 `yaml:"lat" mapstructure:"lat"`
	Lng     float64 `yaml:"lng" mapstructure:"lng"`
	ZipCode string  `yaml:"zip_code" mapstructure:"zip_code"`
}

// AnalysisConfig tunes the core derivation.
type AnalysisConfig struct {
	TierBoundaries     []float64 `yaml:"tier_boundaries" mapstructure:"tier_boundaries"`
	DominanceThreshold float64   `yaml:"dominance_threshold" mapstructure:"dominance_threshold"`
	ObservationWindow  int       `yaml:"observation_window" mapstructure:"observation_window"`
	MaxSkipFraction    float64   `yaml:"max_skip_fraction" mapstructure:"max_skip_fraction"`
}

// PlacesConfig holds Places API settings.
type PlacesConfig struct {
	APIKey        string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	SearchRadiusM int     `yaml:"search_radius_m" mapstructure:"search_radius_m"`
	RateRPS       float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// SurveyConfig bounds the per-query fan-out.
type SurveyConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the observation history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RANKRADIUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "rankradius.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("analysis.tier_boundaries", []float64{0, 5, 10, 15, 25})
	v.SetDefault("analysis.dominance_threshold", analysis.DefaultDominanceThreshold)
	v.SetDefault("analysis.observation_window", 20)
	v.SetDefault("analysis.max_skip_fraction", 0.25)
	// Registered so the env-only override is visible to Unmarshal.
	v.SetDefault("places.api_key", "")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.search_radius_m", 8000)
	v.SetDefault("places.rate_rps", 0.5)
	v.SetDefault("survey.concurrency", 4)

	def := analysis.DefaultScoringConfig()
	v.SetDefault("scoring.distance_weight", def.DistanceWeight)
	v.SetDefault("scoring.competition_weight", def.CompetitionWeight)
	v.SetDefault("scoring.rating_weight", def.RatingWeight)
	v.SetDefault("scoring.distance_half_km", def.DistanceHalfKM)
	v.SetDefault("scoring.competitor_half_count", def.CompetitorHalfCount)
	v.SetDefault("scoring.easy_max_competitors", def.EasyMaxCompetitors)
	v.SetDefault("scoring.easy_max_rating", def.EasyMaxRating)
	v.SetDefault("scoring.hard_min_competitors", def.HardMinCompetitors)
	v.SetDefault("scoring.hard_min_rating", def.HardMinRating)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// MatchTerms returns the identifier terms used to spot the target business,
// falling back to the business name and domain when none are configured.
func (c *Config) MatchTerms() []string {
	if len(c.Business.MatchTerms) > 0 {
		return c.Business.MatchTerms
	}
	var terms []string
	if c.Business.Name != "" {
		terms = append(terms, c.Business.Name)
	}
	if c.Business.Domain != "" {
		terms = append(terms, c.Business.Domain)
	}
	return terms
}

// PrimaryKeyword returns the first configured keyword.
func (c *Config) PrimaryKeyword() string {
	if len(c.Keywords) == 0 {
		return ""
	}
	return c.Keywords[0]
}

// Validate checks that the configuration can drive an analysis run.
func (c *Config) Validate() error {
	var errs []string

	if len(c.MatchTerms()) == 0 {
		errs = append(errs, "business.name, business.domain, or business.match_terms is required")
	}
	if len(c.Keywords) == 0 {
		errs = append(errs, "at least one keyword is required")
	}
	if len(c.Cities) == 0 {
		errs = append(errs, "at least one city is required")
	}
	if c.Places.APIKey == "" {
		errs = append(errs, "places.api_key is required")
	}
	if c.Analysis.DominanceThreshold < 0 || c.Analysis.DominanceThreshold > 1 {
		errs = append(errs, "analysis.dominance_threshold must be between 0 and 1")
	}
	if c.Analysis.MaxSkipFraction < 0 || c.Analysis.MaxSkipFraction > 1 {
		errs = append(errs, "analysis.max_skip_fraction must be between 0 and 1")
	}
	if c.Analysis.ObservationWindow < 0 {
		errs = append(errs, "analysis.observation_window must be >= 0")
	}
	if c.Survey.Concurrency < 1 {
		errs = append(errs, "survey.concurrency must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
