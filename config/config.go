package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Google    GoogleConfig
	Matching  MatchingConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GoogleConfig holds Drive/Sheets/Docs access configuration
type GoogleConfig struct {
	CredentialsFile string        `mapstructure:"credentials_file"`
	TokenFile       string        `mapstructure:"token_file"`
	FolderID        string        `mapstructure:"folder_id"`
	DriveBaseURL    string        `mapstructure:"drive_base_url"`
	SheetsBaseURL   string        `mapstructure:"sheets_base_url"`
	DocsBaseURL     string        `mapstructure:"docs_base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshSkew     time.Duration `mapstructure:"refresh_skew"`
}

// MatchingConfig holds the relevance scoring weights
type MatchingConfig struct {
	KeywordWeight       int `mapstructure:"keyword_weight"`
	DomainKeywordWeight int `mapstructure:"domain_keyword_weight"`
	ExactMatchBonus     int `mapstructure:"exact_match_bonus"`
	RecencyWeek         int `mapstructure:"recency_week"`
	RecencyMonth        int `mapstructure:"recency_month"`
	RecencyQuarter      int `mapstructure:"recency_quarter"`
}

// SearchConfig holds result limits and preview sizes
type SearchConfig struct {
	ResultLimit           int `mapstructure:"result_limit"`
	LegacyLimit           int `mapstructure:"legacy_limit"`
	PreviewChars          int `mapstructure:"preview_chars"`
	DatasheetPreviewChars int `mapstructure:"datasheet_preview_chars"`
}

// RateLimitConfig holds outbound Google API throttling
type RateLimitConfig struct {
	GooglePerSecond float64 `mapstructure:"google_per_second"`
	GoogleBurst     int     `mapstructure:"google_burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/paras-wires/")

	v.SetEnvPrefix("PARASWIRES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile copies variables from ./.env into the process environment.
// Variables that are already set are left alone.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})

	// Google defaults
	v.SetDefault("google.credentials_file", "credentials.json")
	v.SetDefault("google.token_file", "token.json")
	v.SetDefault("google.folder_id", "")
	v.SetDefault("google.drive_base_url", "https://www.googleapis.com")
	v.SetDefault("google.sheets_base_url", "https://sheets.googleapis.com")
	v.SetDefault("google.docs_base_url", "https://docs.googleapis.com")
	v.SetDefault("google.timeout", "30s")
	v.SetDefault("google.refresh_skew", "5m")

	// Matching defaults
	v.SetDefault("matching.keyword_weight", 10)
	v.SetDefault("matching.domain_keyword_weight", 5)
	v.SetDefault("matching.exact_match_bonus", 20)
	v.SetDefault("matching.recency_week", 15)
	v.SetDefault("matching.recency_month", 10)
	v.SetDefault("matching.recency_quarter", 5)

	// Search defaults
	v.SetDefault("search.result_limit", 10)
	v.SetDefault("search.legacy_limit", 5)
	v.SetDefault("search.preview_chars", 1000)
	v.SetDefault("search.datasheet_preview_chars", 2000)

	// Rate limit defaults
	v.SetDefault("ratelimit.google_per_second", 10.0)
	v.SetDefault("ratelimit.google_burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Google.FolderID == "" {
		return fmt.Errorf("Google Drive folder ID is required (set PARASWIRES_GOOGLE_FOLDER_ID)")
	}

	weights := map[string]int{
		"keyword_weight":        config.Matching.KeywordWeight,
		"domain_keyword_weight": config.Matching.DomainKeywordWeight,
		"exact_match_bonus":     config.Matching.ExactMatchBonus,
		"recency_week":          config.Matching.RecencyWeek,
		"recency_month":         config.Matching.RecencyMonth,
		"recency_quarter":       config.Matching.RecencyQuarter,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("matching.%s must not be negative, got: %d", name, w)
		}
	}

	if config.Search.ResultLimit <= 0 || config.Search.LegacyLimit <= 0 {
		return fmt.Errorf("search result limits must be positive")
	}

	if config.RateLimit.GooglePerSecond <= 0 {
		return fmt.Errorf("ratelimit.google_per_second must be positive, got: %v", config.RateLimit.GooglePerSecond)
	}

	return nil
}
