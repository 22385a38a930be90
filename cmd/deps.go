package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/ai/gemini"
	"github.com/spigell/jobhunter/internal/headhunter"
	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/secrets"
	"github.com/spigell/jobhunter/internal/sources/httpsource"
	"github.com/spigell/jobhunter/internal/sources/indeed"
	"github.com/spigell/jobhunter/internal/sources/naukri"
	"github.com/spigell/jobhunter/internal/sources/rss"
	"github.com/spigell/jobhunter/internal/sources/serpapi"
)

const (
	geminiKeyEnv  = "GEMINI_API_KEY"
	serpAPIKeyEnv = "SERPAPI_API_KEY"
)

// setup builds the logger and loads the configuration. Commands cannot proceed without
// either, so failures are fatal.
func setup(command string) (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Info("starting the "+app, zap.String("command", command), zap.String("version", resolvedVersion()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return l, config
}

func redacted(c *Config) Config {
	out := *c
	if out.AI.Gemini.APIKey != "" {
		out.AI.Gemini.APIKey = "***"
	}
	if out.Sources.SerpAPI.APIKey != "" {
		out.Sources.SerpAPI.APIKey = "***"
	}
	return out
}

// newCompleter builds the configured completion service. jsonOutput asks the model for
// JSON replies.
func newCompleter(ctx context.Context, cfg AIConfig, jsonOutput bool, l *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file)", err)
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Options{
		APIKey:       apiKey,
		Model:        cfg.Gemini.Model,
		Temperature:  cfg.Gemini.Temperature,
		MaxRetries:   cfg.Gemini.MaxRetries,
		MaxLogLength: cfg.Gemini.MaxLogLength,
		JSONOutput:   jsonOutput,
	}, l.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	return generator, nil
}

// completerOrNil degrades to no completer when none can be built; components fall back
// on their own.
func completerOrNil(ctx context.Context, cfg AIConfig, jsonOutput bool, l *zap.Logger) ai.Completer {
	completer, err := newCompleter(ctx, cfg, jsonOutput, l)
	if err != nil {
		l.Warn("text completion is unavailable, continuing without it",
			zap.Error(err),
			zap.String("hint", "set "+geminiKeyEnv+" or ai.gemini.api-key-file"),
		)
		return nil
	}
	return completer
}

func scraperOptions(c ScraperConfig) httpsource.Options {
	return httpsource.Options{
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		UserAgents:        c.UserAgents,
	}
}

// buildFetchers returns every enabled job source.
func buildFetchers(cfg *Config, l *zap.Logger) []jobs.Fetcher {
	var hhToken string
	if file := strings.TrimSpace(cfg.Sources.HeadHunter.TokenFile); file != "" {
		token, err := secrets.Load(secrets.Source{Name: "headhunter token", File: file})
		if err != nil {
			l.Warn("headhunter token is unavailable, searching anonymously", zap.Error(err))
		}
		hhToken = token
	}

	serpKey, err := secrets.Load(secrets.Source{
		Name:  "serpapi api key",
		Value: cfg.Sources.SerpAPI.APIKey,
		File:  cfg.Sources.SerpAPI.APIKeyFile,
		Env:   serpAPIKeyEnv,
	})
	if err != nil {
		l.Debug("serpapi key is not configured", zap.Error(err))
	}

	all := []jobs.Fetcher{
		headhunter.New(headhunter.Options{
			Token:    hhToken,
			Areas:    cfg.Sources.HeadHunter.Areas,
			MaxPages: cfg.Sources.HeadHunter.MaxPages,
			Timeout:  cfg.Sources.HeadHunter.Timeout,
		}, l),
		naukri.New(naukri.Options{
			BaseURL: cfg.Sources.Naukri.BaseURL,
			Limit:   cfg.Sources.Naukri.Limit,
			HTTP:    scraperOptions(cfg.Sources.Naukri),
		}, l),
		indeed.New(indeed.Options{
			BaseURL: cfg.Sources.Indeed.BaseURL,
			Limit:   cfg.Sources.Indeed.Limit,
			HTTP:    scraperOptions(cfg.Sources.Indeed),
		}, l),
		serpapi.New(serpapi.Options{APIKey: serpKey}, l),
	}

	if len(cfg.Sources.RSS.Feeds) > 0 {
		all = append(all, rss.New(rss.Options{
			Feeds: cfg.Sources.RSS.Feeds,
			Limit: cfg.Sources.RSS.Limit,
		}, l))
	}

	fetchers := make([]jobs.Fetcher, 0, len(all))
	for _, f := range all {
		if cfg.sourceDisabled(f.Name()) {
			l.Info("source disabled by config", zap.String(logger.FieldSource, f.Name()))
			continue
		}
		fetchers = append(fetchers, f)
	}
	return fetchers
}
