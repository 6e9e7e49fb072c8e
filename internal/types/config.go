package types

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSearchKeywords      = errors.New("search_keywords must not be empty")
	ErrNoTravelKeywords      = errors.New("travel_keywords must not be empty")
	ErrNoContactPaths        = errors.New("contact_paths must not be empty")
	ErrInvalidMaxRetries     = errors.New("max_retries must be between 0 and 10")
	ErrInvalidTimeout        = errors.New("timeout must be positive")
	ErrInvalidRequestDelay   = errors.New("request_delay must be non-negative")
	ErrInvalidKeywordMinimum = errors.New("min_keyword_matches must be at least 1")
	ErrMissingExportDir      = errors.New("export_directory is required")
)

// Config holds the configuration for the scraper
type Config struct {
	// Discovery
	SearchKeywords    []string `yaml:"search_keywords"`
	SearchSuffix      string   `yaml:"search_suffix"`
	SearchLanguage    string   `yaml:"search_language"`
	SearchBaseURL     string   `yaml:"search_base_url"`
	ResultsPerKeyword int      `yaml:"results_per_keyword"`

	// Filtering
	TravelKeywords    []string `yaml:"travel_keywords"`
	MinKeywordMatches int      `yaml:"min_keyword_matches"`

	// Fetching
	ContactPaths       []string      `yaml:"contact_paths"`
	RequestDelay       time.Duration `yaml:"request_delay"`
	MaxRetries         int           `yaml:"max_retries"`
	Timeout            time.Duration `yaml:"timeout"`
	UseHeadlessBrowser bool          `yaml:"use_headless_browser"`
	UserAgent          string        `yaml:"user_agent"`

	// Cleaning
	StrictPhoneValidation bool `yaml:"strict_phone_validation"`

	// Export
	ExportDirectory string `yaml:"export_directory"`
	CSVFilename     string `yaml:"csv_filename"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SearchKeywords: []string{
			"Paket Umroh",
			"Travel Haji dan Umroh",
			"Penyelenggara Umroh Resmi",
			"Biro Perjalanan Umroh",
			"Travel Umroh Terpercaya",
			"Agen Umroh Resmi",
		},
		SearchSuffix:      "Indonesia",
		SearchLanguage:    "id",
		SearchBaseURL:     "https://www.google.com/search",
		ResultsPerKeyword: 10,
		TravelKeywords: []string{
			"umroh", "umrah", "haji", "hajj", "travel", "wisata",
			"ziarah", "mekkah", "madinah", "saudi", "paket",
		},
		MinKeywordMatches: 3,
		ContactPaths: []string{
			"/contact",
			"/kontak",
			"/kontak-kami",
			"/contact-us",
			"/hubungi-kami",
			"/about",
			"/tentang-kami",
		},
		RequestDelay:       2 * time.Second,
		MaxRetries:         3,
		Timeout:            30 * time.Second,
		UseHeadlessBrowser: false,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ExportDirectory:    "exports",
		CSVFilename:        "haji_umroh_organizers.csv",
	}
}

// LoadConfig builds a configuration from defaults, an optional YAML file and SCRAPER_* environment variables
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SCRAPER_REQUEST_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_REQUEST_DELAY value: %w", err)
		}
		c.RequestDelay = d
	}
	if v := os.Getenv("SCRAPER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_TIMEOUT value: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("SCRAPER_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_MAX_RETRIES value: %w", err)
		}
		c.MaxRetries = n
	}
	if v := os.Getenv("SCRAPER_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_HEADLESS value: %w", err)
		}
		c.UseHeadlessBrowser = b
	}
	if v := os.Getenv("SCRAPER_STRICT_PHONES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_STRICT_PHONES value: %w", err)
		}
		c.StrictPhoneValidation = b
	}
	if v := os.Getenv("SCRAPER_EXPORT_DIR"); v != "" {
		c.ExportDirectory = v
	}
	if v := os.Getenv("SCRAPER_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	return nil
}

// MaxRetriesLimit is the largest accepted MaxRetries
const MaxRetriesLimit = 10

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if len(c.SearchKeywords) == 0 {
		return ErrNoSearchKeywords
	}
	if len(c.TravelKeywords) == 0 {
		return ErrNoTravelKeywords
	}
	if len(c.ContactPaths) == 0 {
		return ErrNoContactPaths
	}
	if c.MaxRetries < 0 || c.MaxRetries > MaxRetriesLimit {
		return ErrInvalidMaxRetries
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.MinKeywordMatches < 1 {
		return ErrInvalidKeywordMinimum
	}
	if c.ExportDirectory == "" {
		return ErrMissingExportDir
	}
	return nil
}
