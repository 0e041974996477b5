// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the journal server and CLI.
type Config struct {
	// Server configuration
	Transport string
	Host      string
	Port      int
	DBPath    string

	// AI gateway used to split meal descriptions into ingredients
	ProxyURL    string
	ProxyAPIKey string
	Model       string

	// Analysis defaults
	WindowHours  float64
	LookbackDays int
	AnalysisDays int

	LogLevel string
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("transport", "http")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8011)
	v.SetDefault("db_path", "/data/health-journal.db")
	v.SetDefault("proxy_url", "http://mcp-compose-http-proxy:9876")
	v.SetDefault("proxy_api_key", "")
	v.SetDefault("model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("window_hours", 6.0)
	v.SetDefault("lookback_days", 7)
	v.SetDefault("analysis_days", 30)
	v.SetDefault("log_level", "info")
}

// New returns a viper instance with defaults and environment lookups.
// Keys map to HEALTH_JOURNAL_<KEY>; the gateway keys also accept the
// MCP_PROXY_URL, MCP_PROXY_API_KEY and OPENROUTER_MODEL variables.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("health_journal")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("proxy_url", "HEALTH_JOURNAL_PROXY_URL", "MCP_PROXY_URL")
	_ = v.BindEnv("proxy_api_key", "HEALTH_JOURNAL_PROXY_API_KEY", "MCP_PROXY_API_KEY")
	_ = v.BindEnv("model", "HEALTH_JOURNAL_MODEL", "OPENROUTER_MODEL")
	return v
}

// Load reads an optional config file into v and returns the validated config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Transport:    v.GetString("transport"),
		Host:         v.GetString("host"),
		Port:         v.GetInt("port"),
		DBPath:       v.GetString("db_path"),
		ProxyURL:     v.GetString("proxy_url"),
		ProxyAPIKey:  v.GetString("proxy_api_key"),
		Model:        v.GetString("model"),
		WindowHours:  v.GetFloat64("window_hours"),
		LookbackDays: v.GetInt("lookback_days"),
		AnalysisDays: v.GetInt("analysis_days"),
		LogLevel:     v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	if c.Transport != "http" {
		errs = append(errs, ValidationError{Field: "transport", Message: "only http is supported"})
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, ValidationError{Field: "port", Message: "must be between 1 and 65535"})
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, ValidationError{Field: "db_path", Message: "is required"})
	}
	if c.WindowHours <= 0 {
		errs = append(errs, ValidationError{Field: "window_hours", Message: "must be positive"})
	}
	if c.LookbackDays <= 0 {
		errs = append(errs, ValidationError{Field: "lookback_days", Message: "must be positive"})
	}
	if c.AnalysisDays < 0 {
		errs = append(errs, ValidationError{Field: "analysis_days", Message: "must be zero (all time) or positive"})
	}
	return errors.Join(errs...)
}
