package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/scoring"
)

type Config struct {
	Search      jobs.Config    `mapstructure:"search"`
	Scoring     scoring.Config `mapstructure:"scoring"`
	Sources     SourcesConfig  `mapstructure:"sources"`
	Filters     FiltersConfig  `mapstructure:"filters"`
	AI          AIConfig       `mapstructure:"ai"`
	ExcludeFile string         `mapstructure:"exclude-file"`
}

type SourcesConfig struct {
	// Disabled lists source names that are never queried.
	Disabled   []string         `mapstructure:"disabled"`
	HeadHunter HeadHunterConfig `mapstructure:"headhunter"`
	Naukri     ScraperConfig    `mapstructure:"naukri"`
	Indeed     ScraperConfig    `mapstructure:"indeed"`
	SerpAPI    SerpAPIConfig    `mapstructure:"serpapi"`
	RSS        RSSConfig        `mapstructure:"rss"`
}

type HeadHunterConfig struct {
	TokenFile string        `mapstructure:"token-file"`
	Areas     []int         `mapstructure:"areas"`
	MaxPages  int           `mapstructure:"max-pages" validate:"gte=0"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ScraperConfig struct {
	BaseURL           string        `mapstructure:"base-url" validate:"omitempty,url"`
	Limit             int           `mapstructure:"limit" validate:"gte=0"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second" validate:"gte=0"`
	UserAgents        []string      `mapstructure:"user-agents"`
}

type SerpAPIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type RSSConfig struct {
	Feeds []string `mapstructure:"feeds" validate:"dive,url"`
	Limit int      `mapstructure:"limit" validate:"gte=0"`
}

type FiltersConfig struct {
	ExcludedCompanies []string `mapstructure:"excluded-companies"`
	MinimumMatchScore float64  `mapstructure:"minimum-match-score" validate:"gte=0,lte=100"`
	ResumeFit         struct {
		Enabled         bool    `mapstructure:"enabled"`
		MinimumFitScore float64 `mapstructure:"minimum-fit-score" validate:"gte=0,lte=100"`
		MaxPostings     int     `mapstructure:"max-postings" validate:"gte=0"`
	} `mapstructure:"resume-fit"`
}

type AIConfig struct {
	Provider string       `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string  `mapstructure:"api-key"`
	APIKeyFile   string  `mapstructure:"api-key-file"`
	Model        string  `mapstructure:"model"`
	Temperature  float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxRetries   int     `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int     `mapstructure:"max-log-length" validate:"gte=0"`
}

var validate = validator.New()

func defaultConfig() *Config {
	cfg := &Config{
		Search: jobs.Config{
			MaxResults:    jobs.DefaultMaxResults,
			SourceTimeout: 30 * time.Second,
		},
		Scoring: scoring.DefaultConfig(),
		AI: AIConfig{
			Provider: "gemini",
			Gemini: GeminiConfig{
				Temperature: 0.3,
				MaxRetries:  3,
			},
		},
	}
	cfg.Filters.ResumeFit.MinimumFitScore = 60
	cfg.Filters.ResumeFit.MaxPostings = 10
	return cfg
}

// getConfig overlays the configuration file and environment on top of the defaults.
func getConfig() (*Config, error) {
	config := defaultConfig()
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := config.Scoring.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) sourceDisabled(name string) bool {
	for _, d := range c.Sources.Disabled {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return true
		}
	}
	return false
}
