// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"slices"
	"strings"

	"fjacquet/statement-sorter/internal/aiclient"
	"fjacquet/statement-sorter/internal/content"
	"fjacquet/statement-sorter/internal/organizer"
	"fjacquet/statement-sorter/internal/progress"
	"fjacquet/statement-sorter/internal/report"
	"fjacquet/statement-sorter/internal/sorterror"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override (SORTER_LOG_LEVEL, ...).
const EnvPrefix = "SORTER"

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OrganizeConfig holds the batch run settings.
type OrganizeConfig struct {
	SourceDir      string   `mapstructure:"source_dir" yaml:"source_dir"`
	DestinationDir string   `mapstructure:"destination_dir" yaml:"destination_dir"`
	Recursive      bool     `mapstructure:"recursive" yaml:"recursive"`
	TestMode       bool     `mapstructure:"test_mode" yaml:"test_mode"`
	Resume         bool     `mapstructure:"resume" yaml:"resume"`
	RetryErrors    bool     `mapstructure:"retry_errors" yaml:"retry_errors"`
	Advanced       bool     `mapstructure:"advanced" yaml:"advanced"`
	Extensions     []string `mapstructure:"extensions" yaml:"extensions"`
}

// ExtractionConfig tunes the local extractors.
type ExtractionConfig struct {
	CacheSize          int  `mapstructure:"cache_size" yaml:"cache_size"`
	DefaultMissingDate bool `mapstructure:"default_missing_date" yaml:"default_missing_date"`
}

// ProgressConfig names the progress log stored in the source directory.
type ProgressConfig struct {
	FileName string `mapstructure:"file_name" yaml:"file_name"`
}

// AIConfig configures the external classifier.
type AIConfig struct {
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
	Provider       string  `mapstructure:"provider" yaml:"provider"`
	Model          string  `mapstructure:"model" yaml:"model"`
	Mode           string  `mapstructure:"mode" yaml:"mode"`
	DelaySeconds   float64 `mapstructure:"delay_seconds" yaml:"delay_seconds"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	ExcerptChars   int     `mapstructure:"excerpt_chars" yaml:"excerpt_chars"`
	FallbackBank   string  `mapstructure:"fallback_bank" yaml:"fallback_bank"`
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`
	APIKey         string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	GeminiAPIKey   string  `mapstructure:"gemini_api_key" yaml:"-"`
	OpenAIAPIKey   string  `mapstructure:"openai_api_key" yaml:"-"`
}

// ContentConfig bounds the text read from statement files.
type ContentConfig struct {
	MaxChars int `mapstructure:"max_chars" yaml:"max_chars"`
}

// ReportConfig controls where run reports are written.
type ReportConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Format    string `mapstructure:"format" yaml:"format"`
}

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Organize   OrganizeConfig   `mapstructure:"organize" yaml:"organize"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	Progress   ProgressConfig   `mapstructure:"progress" yaml:"progress"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
	Content    ContentConfig    `mapstructure:"content" yaml:"content"`
	Report     ReportConfig     `mapstructure:"report" yaml:"report"`
}

// NewViper returns a Viper instance with defaults, config file locations and
// environment bindings set up. Callers may bind command flags to it before
// calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.statement-sorter")
	v.AddConfigPath(".statement-sorter")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Provider keys are read from their usual unprefixed variables
	_ = v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY")
	_ = v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("ai.openai_api_key", "OPENAI_API_KEY")

	return v
}

// InitializeConfig loads the configuration from defaults, config file and
// environment.
func InitializeConfig() (*Config, error) {
	return Load(NewViper())
}

// Load reads the optional config file into v, then unmarshals and validates
// the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.AI.APIKey = config.AI.ResolvedAPIKey()

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// ResolvedAPIKey returns the explicit key, or the provider's own variable.
func (c AIConfig) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.Provider == aiclient.ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Organize defaults
	v.SetDefault("organize.source_dir", "")
	v.SetDefault("organize.destination_dir", "")
	v.SetDefault("organize.recursive", true)
	v.SetDefault("organize.test_mode", true)
	v.SetDefault("organize.resume", false)
	v.SetDefault("organize.retry_errors", false)
	v.SetDefault("organize.advanced", false)
	v.SetDefault("organize.extensions", organizer.DefaultExtensions)

	// Extraction defaults
	v.SetDefault("extraction.cache_size", 1024)
	v.SetDefault("extraction.default_missing_date", false)

	// Progress defaults
	v.SetDefault("progress.file_name", progress.DefaultFileName)

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", aiclient.ProviderGemini)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.mode", organizer.AIModeFallback)
	v.SetDefault("ai.delay_seconds", 1.0)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.excerpt_chars", aiclient.DefaultExcerptChars)
	v.SetDefault("ai.fallback_bank", "BANCO")
	v.SetDefault("ai.base_url", "")

	// Content defaults
	v.SetDefault("content.max_chars", content.DefaultMaxChars)

	// Report defaults
	v.SetDefault("report.directory", "reports")
	v.SetDefault("report.format", report.FormatJSON)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return &sorterror.ConfigError{Key: "log.level", Reason: fmt.Sprintf("invalid log level: %s", config.Log.Level)}
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return &sorterror.ConfigError{Key: "log.format", Reason: fmt.Sprintf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)}
	}

	if config.Extraction.CacheSize < 0 {
		return &sorterror.ConfigError{Key: "extraction.cache_size", Reason: fmt.Sprintf("must not be negative, got: %d", config.Extraction.CacheSize)}
	}

	if !slices.Contains(report.Formats, config.Report.Format) {
		return &sorterror.ConfigError{Key: "report.format", Reason: fmt.Sprintf("unsupported report format: %s", config.Report.Format)}
	}

	if config.Progress.FileName == "" {
		return &sorterror.ConfigError{Key: "progress.file_name", Reason: "must not be empty"}
	}

	// Validate AI configuration
	if config.AI.Provider != aiclient.ProviderGemini && config.AI.Provider != aiclient.ProviderOpenAI {
		return &sorterror.ConfigError{Key: "ai.provider", Reason: fmt.Sprintf("unknown provider %q (must be 'gemini' or 'openai')", config.AI.Provider)}
	}
	if config.AI.Mode != organizer.AIModeFallback && config.AI.Mode != organizer.AIModePrimary {
		return &sorterror.ConfigError{Key: "ai.mode", Reason: fmt.Sprintf("unknown mode %q (must be 'fallback' or 'primary')", config.AI.Mode)}
	}
	if config.AI.DelaySeconds < 0.1 {
		return &sorterror.ConfigError{Key: "ai.delay_seconds", Reason: fmt.Sprintf("must be at least 0.1, got: %g", config.AI.DelaySeconds)}
	}
	if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
		return &sorterror.ConfigError{Key: "ai.timeout_seconds", Reason: fmt.Sprintf("must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)}
	}
	if config.AI.ExcerptChars < 100 || config.AI.ExcerptChars > 10000 {
		return &sorterror.ConfigError{Key: "ai.excerpt_chars", Reason: fmt.Sprintf("must be between 100 and 10000, got: %d", config.AI.ExcerptChars)}
	}
	if config.AI.Enabled && config.AI.APIKey == "" {
		return &sorterror.ConfigError{Key: "ai.api_key", Reason: fmt.Sprintf("%s required when AI is enabled", apiKeyVariable(config.AI.Provider))}
	}

	return nil
}

func apiKeyVariable(provider string) string {
	if provider == aiclient.ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}
