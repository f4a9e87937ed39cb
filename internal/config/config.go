// Package config provides configuration loading and validation for the CLI and API server.
// It uses koanf to merge an optional YAML file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/epitope-ranker/internal/server/ratelimit"
	"github.com/jonathan/epitope-ranker/internal/threshold"
	"github.com/jonathan/epitope-ranker/internal/types"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values.
type Config struct {
	// Server settings
	Port int `koanf:"port"`

	// Database
	DatabaseURL string `koanf:"database_url"`

	// Dataset validation; empty uses the embedded schema
	SchemaPath string `koanf:"schema_path"`

	// Threshold defaults
	DefaultAttribute    string  `koanf:"default_attribute"`
	DefaultPercentile   float64 `koanf:"default_percentile"`
	DefaultBindingScore float64 `koanf:"default_binding_score"`
	PercentileVariant   string  `koanf:"percentile_variant"` // "detail" (1-50) or "overview" (1-99)

	// Minimum passing alleles for an epitope to be highlighted in the overview
	MinAlleles int `koanf:"min_alleles"`

	// API rate limiting; per-endpoint limits come from ratelimit.DefaultEndpointConfigs
	RateLimitEnabled   bool          `koanf:"rate_limit_enabled"`
	RateLimitDefault   int           `koanf:"rate_limit_default_limit"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitAllowlist []string      `koanf:"rate_limit_allowlist"`
	RateLimitBlocklist []string      `koanf:"rate_limit_blocklist"`
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrInvalidPort        = errors.New("PORT must be a valid integer")
	ErrInvalidNumber      = errors.New("value must be a valid number")
	ErrPortOutOfRange     = errors.New("port must be between 1 and 65535")
	ErrInvalidMinAlleles  = errors.New("min_alleles must be at least 1")
	ErrInvalidThreshold   = errors.New("default threshold values must be positive")
	ErrInvalidRateLimit   = errors.New("rate limit and window must be positive")
	ErrInvalidBool        = errors.New("value must be true or false")
	ErrInvalidDuration    = errors.New("value must be a duration such as 90s or 1h")
)

// Default values.
const (
	DefaultPort            = 8080
	DefaultMinAlleles      = 3
	DefaultRateLimit       = 1000
	DefaultRateLimitWindow = time.Minute

	rateLimitCleanupInterval = 5 * time.Minute
)

// Load reads configuration from an optional YAML file and environment variables.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// EPITOPE_PORT first, then PORT as set by most hosting platforms
	port, err := getEnvIntOrDefaultMulti([]string{"EPITOPE_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	minAlleles, err := getEnvIntOrDefaultMulti([]string{"EPITOPE_MIN_ALLELES"}, k.Int("min_alleles"), DefaultMinAlleles)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	percentile, err := getEnvFloatOrDefault("EPITOPE_DEFAULT_PERCENTILE", k.Float64("default_percentile"), threshold.DefaultPercentile)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	bindingScore, err := getEnvFloatOrDefault("EPITOPE_DEFAULT_BINDING_SCORE", k.Float64("default_binding_score"), threshold.DefaultBindingScore)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	rateLimitEnabled, err := getEnvBoolOrDefault("RATE_LIMIT_ENABLED", k, "rate_limit_enabled", true)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	rateLimit, err := getEnvIntOrDefaultMulti([]string{"RATE_LIMIT_DEFAULT_LIMIT"}, k.Int("rate_limit_default_limit"), DefaultRateLimit)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	rateLimitWindow, err := getEnvDurationOrDefault("RATE_LIMIT_DEFAULT_WINDOW", k.Duration("rate_limit_window"), DefaultRateLimitWindow)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	cfg := &Config{
		Port:                port,
		DatabaseURL:         getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		SchemaPath:          getEnvOrKoanf("EPITOPE_SCHEMA_PATH", k, "schema_path"),
		DefaultAttribute:    getEnvOrDefault("EPITOPE_DEFAULT_ATTRIBUTE", k.String("default_attribute"), string(threshold.DefaultAttribute)),
		DefaultPercentile:   percentile,
		DefaultBindingScore: bindingScore,
		PercentileVariant:   getEnvOrDefault("EPITOPE_PERCENTILE_VARIANT", k.String("percentile_variant"), string(threshold.DefaultVariant)),
		MinAlleles:          minAlleles,
		RateLimitEnabled:    rateLimitEnabled,
		RateLimitDefault:    rateLimit,
		RateLimitWindow:     rateLimitWindow,
		RateLimitAllowlist:  getEnvListOrKoanf("RATE_LIMIT_ALLOWLIST", k, "rate_limit_allowlist"),
		RateLimitBlocklist:  getEnvListOrKoanf("RATE_LIMIT_BLOCKLIST", k, "rate_limit_blocklist"),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Defaults returns the configuration used when no file or environment is present.
func Defaults() *Config {
	return &Config{
		Port:                DefaultPort,
		DefaultAttribute:    string(threshold.DefaultAttribute),
		DefaultPercentile:   threshold.DefaultPercentile,
		DefaultBindingScore: threshold.DefaultBindingScore,
		PercentileVariant:   string(threshold.DefaultVariant),
		MinAlleles:          DefaultMinAlleles,
		RateLimitEnabled:    true,
		RateLimitDefault:    DefaultRateLimit,
		RateLimitWindow:     DefaultRateLimitWindow,
	}
}

// Validate checks value ranges. The database URL is not required here because
// only the import and serve commands need it; see RequireDatabase.
func (c *Config) Validate() []error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrPortOutOfRange)
	}
	if c.MinAlleles < 1 {
		errs = append(errs, ErrInvalidMinAlleles)
	}
	if c.DefaultPercentile <= 0 || c.DefaultBindingScore <= 0 {
		errs = append(errs, ErrInvalidThreshold)
	}
	if _, err := types.ParseAttribute(c.DefaultAttribute); err != nil {
		errs = append(errs, fmt.Errorf("default_attribute: %w", err))
	}
	if _, err := threshold.ParseVariant(c.PercentileVariant); err != nil {
		errs = append(errs, fmt.Errorf("percentile_variant: %w", err))
	}
	if c.RateLimitEnabled && (c.RateLimitDefault < 1 || c.RateLimitWindow <= 0) {
		errs = append(errs, ErrInvalidRateLimit)
	}

	return errs
}

// RequireDatabase returns ErrMissingDatabaseURL when no database is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// ThresholdState returns the initial slider state. Default values outside the
// slider range are clamped and logged.
func (c *Config) ThresholdState() threshold.State {
	state := threshold.NewState()

	if attr, err := types.ParseAttribute(c.DefaultAttribute); err == nil {
		state.Attribute = attr
	}
	if variant, err := threshold.ParseVariant(c.PercentileVariant); err == nil {
		state.Variant = variant
	}

	if c.DefaultPercentile > 0 {
		b, _ := threshold.BoundsFor(types.AttributePercentile, state.Variant)
		state.Percentile = b.Clamp(c.DefaultPercentile)
		if state.Percentile != c.DefaultPercentile {
			slog.Warn("default_percentile outside slider range, clamping",
				"configured", c.DefaultPercentile,
				"clamped", state.Percentile)
		}
	}
	if c.DefaultBindingScore > 0 {
		b, _ := threshold.BoundsFor(types.AttributeBindingScore, state.Variant)
		state.BindingScore = b.Clamp(c.DefaultBindingScore)
		if state.BindingScore != c.DefaultBindingScore {
			slog.Warn("default_binding_score outside slider range, clamping",
				"configured", c.DefaultBindingScore,
				"clamped", state.BindingScore)
		}
	}

	return state
}

// RateLimitConfig returns the limiter settings for the API server.
func (c *Config) RateLimitConfig() *ratelimit.Config {
	if !c.RateLimitEnabled {
		return &ratelimit.Config{Enabled: false}
	}
	return &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    c.RateLimitDefault,
		DefaultWindow:   c.RateLimitWindow,
		CleanupInterval: rateLimitCleanupInterval,
		Whitelist:       toSet(c.RateLimitAllowlist),
		Blacklist:       toSet(c.RateLimitBlocklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// LogSummary returns a summary of the configuration suitable for logging.
// The database password is masked.
func (c *Config) LogSummary() map[string]string {
	schema := c.SchemaPath
	if schema == "" {
		schema = "<embedded>"
	}
	return map[string]string{
		"port":                  strconv.Itoa(c.Port),
		"database_url":          maskDatabaseURL(c.DatabaseURL),
		"schema_path":           schema,
		"default_attribute":     c.DefaultAttribute,
		"default_percentile":    strconv.FormatFloat(c.DefaultPercentile, 'f', -1, 64),
		"default_binding_score": strconv.FormatFloat(c.DefaultBindingScore, 'f', -1, 64),
		"percentile_variant":    c.PercentileVariant,
		"min_alleles":           strconv.Itoa(c.MinAlleles),
		"rate_limit":            rateLimitSummary(c),
	}
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// A zero koanf value falls back to the default.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				if strings.HasSuffix(key, "PORT") {
					return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
				}
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidNumber)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvBoolOrDefault returns the environment variable as bool if set, otherwise the koanf value when present, or default.
func getEnvBoolOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) (bool, error) {
	if val := os.Getenv(envKey); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false, fmt.Errorf("%s: %w", envKey, ErrInvalidBool)
		}
		return b, nil
	}
	if k.Exists(koanfKey) {
		return k.Bool(koanfKey), nil
	}
	return defaultVal, nil
}

// getEnvDurationOrDefault returns the environment variable as a duration ("90s", "1h") if set,
// otherwise the koanf value, or default.
func getEnvDurationOrDefault(envKey string, koanfVal time.Duration, defaultVal time.Duration) (time.Duration, error) {
	if val := os.Getenv(envKey); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", envKey, ErrInvalidDuration)
		}
		return d, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvListOrKoanf splits a comma-separated environment variable, otherwise returns the koanf list.
func getEnvListOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) []string {
	items := k.Strings(koanfKey)
	if val := os.Getenv(envKey); val != "" {
		items = strings.Split(val, ",")
	}

	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid number: %w", envKey, ErrInvalidNumber)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

func rateLimitSummary(c *Config) string {
	if !c.RateLimitEnabled {
		return "disabled"
	}
	return fmt.Sprintf("%d per %s", c.RateLimitDefault, c.RateLimitWindow)
}

// maskDatabaseURL masks the password in a database URL.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return "****"
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s
	}

	return s[:schemeEnd+3] + rest[:colonIndex] + ":****" + rest[atIndex:]
}
