package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/scoring"
)

func TestGetConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, jobs.DefaultMaxResults, cfg.Search.MaxResults)
	assert.Equal(t, scoring.DefaultConfig(), cfg.Scoring)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.False(t, cfg.Filters.ResumeFit.Enabled)
}

func TestGetConfigOverlaysFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "jobhunter.yaml")
	content := `
search:
  max-results: 20
  source-timeout: 5s
scoring:
  fuzzy-threshold: 70
sources:
  disabled: [indeed]
  rss:
    feeds: ["https://example.com/jobs.rss"]
filters:
  resume-fit:
    enabled: true
exclude-file: excluded.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Equal(t, 5*time.Second, cfg.Search.SourceTimeout)
	assert.Equal(t, 70.0, cfg.Scoring.FuzzyThreshold)
	assert.Equal(t, scoring.DefaultWeights(), cfg.Scoring.Weights, "untouched keys keep defaults")
	assert.True(t, cfg.Filters.ResumeFit.Enabled)
	assert.Equal(t, 60.0, cfg.Filters.ResumeFit.MinimumFitScore)
	assert.Equal(t, "excluded.json", cfg.ExcludeFile)
	assert.True(t, cfg.sourceDisabled("Indeed"))
}

func TestGetConfigRejectsBadWeights(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("scoring.weights.skill-match", 0.9)

	_, err := getConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights sum")
}

func TestBuildFetchersSkipsDisabled(t *testing.T) {
	t.Setenv(serpAPIKeyEnv, "")

	cfg := defaultConfig()
	cfg.Sources.Disabled = []string{" naukri ", "INDEED"}
	cfg.Sources.RSS.Feeds = []string{"https://example.com/jobs.rss"}

	names := make([]string, 0)
	for _, f := range buildFetchers(cfg, zap.NewNop()) {
		names = append(names, f.Name())
	}

	assert.Equal(t, []string{"HeadHunter", "Google Jobs", "RSS"}, names)
}

func TestRedactedHidesKeys(t *testing.T) {
	cfg := defaultConfig()
	cfg.AI.Gemini.APIKey = "secret"
	cfg.Sources.SerpAPI.APIKey = "secret"

	out := redacted(cfg)
	assert.Equal(t, "***", out.AI.Gemini.APIKey)
	assert.Equal(t, "***", out.Sources.SerpAPI.APIKey)
	assert.Equal(t, "secret", cfg.AI.Gemini.APIKey)
}

func TestReadTextArg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	got, err := readTextArg("inline", path)
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	got, err = readTextArg("", path)
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	_, err = readTextArg("", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
