package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NoError(t, config.Validate())
	assert.Len(t, config.SearchKeywords, 6)
	assert.Equal(t, 3, config.MinKeywordMatches)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 2*time.Second, config.RequestDelay)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, "/contact", config.ContactPaths[0])
	assert.Equal(t, "/tentang-kami", config.ContactPaths[len(config.ContactPaths)-1])
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search_keywords:
  - "Umroh Plus Turki"
request_delay: 500ms
max_retries: 1
export_directory: out
strict_phone_validation: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Umroh Plus Turki"}, config.SearchKeywords)
	assert.Equal(t, 500*time.Millisecond, config.RequestDelay)
	assert.Equal(t, 1, config.MaxRetries)
	assert.Equal(t, "out", config.ExportDirectory)
	assert.True(t, config.StrictPhoneValidation)
	// Untouched fields keep their defaults
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, "id", config.SearchLanguage)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_REQUEST_DELAY", "1s")
	t.Setenv("SCRAPER_MAX_RETRIES", "5")
	t.Setenv("SCRAPER_HEADLESS", "true")
	t.Setenv("SCRAPER_EXPORT_DIR", "/tmp/exports")

	config, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, time.Second, config.RequestDelay)
	assert.Equal(t, 5, config.MaxRetries)
	assert.True(t, config.UseHeadlessBrowser)
	assert.Equal(t, "/tmp/exports", config.ExportDirectory)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("SCRAPER_MAX_RETRIES", "many")

	_, err := LoadConfig("")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SCRAPER_MAX_RETRIES")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no search keywords", func(c *Config) { c.SearchKeywords = nil }, ErrNoSearchKeywords},
		{"no travel keywords", func(c *Config) { c.TravelKeywords = nil }, ErrNoTravelKeywords},
		{"no contact paths", func(c *Config) { c.ContactPaths = nil }, ErrNoContactPaths},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, ErrInvalidMaxRetries},
		{"too many retries", func(c *Config) { c.MaxRetries = MaxRetriesLimit + 1 }, ErrInvalidMaxRetries},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative delay", func(c *Config) { c.RequestDelay = -time.Second }, ErrInvalidRequestDelay},
		{"zero threshold", func(c *Config) { c.MinKeywordMatches = 0 }, ErrInvalidKeywordMinimum},
		{"no export dir", func(c *Config) { c.ExportDirectory = "" }, ErrMissingExportDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.ErrorIs(t, config.Validate(), tt.want)
		})
	}
}

func TestConfig_Validate_RetryLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = MaxRetriesLimit
	assert.NoError(t, config.Validate())

	config.MaxRetries = 64
	assert.ErrorIs(t, config.Validate(), ErrInvalidMaxRetries)
}
