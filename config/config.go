// Package config loads command line settings from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every flag name when reading the environment,
// e.g. --log-level is also read from SEMGEN_LOG_LEVEL.
const EnvPrefix = "SEMGEN"

// Output formats accepted by --format.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatSummary = "summary"
)

// Flag names.
const (
	FlagModel         = "model"
	FlagPromptFile    = "prompt-file"
	FlagFormat        = "format"
	FlagLogLevel      = "log-level"
	FlagEndpoint      = "endpoint"
	FlagMaxRetries    = "max-retries"
	FlagTimeout       = "timeout"
	FlagBigQueryTable = "bigquery-table"
)

var (
	DefaultModel    = "gpt-4o"
	DefaultFormat   = FormatText
	DefaultLogLevel = "info"
)

// ErrMissingCredential is returned when no API key is set for the selected
// provider.
var ErrMissingCredential = errors.New("missing provider credential")

// Config holds the resolved settings for one run.
type Config struct {
	Model         string
	Endpoint      string
	LogLevel      string
	Format        string
	MaxRetries    int
	Timeout       time.Duration
	PromptFile    string
	BigQueryTable string
}

// DefineFlags registers the command line flags on the given flag set.
func DefineFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagModel, "m", DefaultModel, "Model to use, e.g. gpt-4o, claude-sonnet-4-5, gemini-2.5-flash")
	fs.StringP(FlagPromptFile, "p", "", "Read the instruction from a file")
	fs.StringP(FlagFormat, "f", DefaultFormat, "Output format: text, json, yaml or summary")
	fs.String(FlagLogLevel, DefaultLogLevel, "Log level: debug, info, warn or error")
	fs.String(FlagEndpoint, "", "Override the provider API base URL")
	fs.Int(FlagMaxRetries, 0, "Retries performed by the provider SDK")
	fs.Duration(FlagTimeout, 0, "Request timeout (0 uses the provider default)")
	fs.String(FlagBigQueryTable, "", "Describe an existing BigQuery table (project.dataset.table) in the prompt")
}

// Load resolves the configuration. Flags set explicitly win over SEMGEN_*
// environment variables, which win over defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(FlagModel, DefaultModel)
	v.SetDefault(FlagFormat, DefaultFormat)
	v.SetDefault(FlagLogLevel, DefaultLogLevel)
	v.SetDefault(FlagMaxRetries, 0)
	v.SetDefault(FlagTimeout, time.Duration(0))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg := &Config{
		Model:         strings.TrimSpace(v.GetString(FlagModel)),
		Endpoint:      strings.TrimSpace(v.GetString(FlagEndpoint)),
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString(FlagLogLevel))),
		Format:        strings.ToLower(strings.TrimSpace(v.GetString(FlagFormat))),
		MaxRetries:    v.GetInt(FlagMaxRetries),
		Timeout:       v.GetDuration(FlagTimeout),
		PromptFile:    v.GetString(FlagPromptFile),
		BigQueryTable: strings.TrimSpace(v.GetString(FlagBigQueryTable)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.Endpoint, is.URL),
		validation.Field(&c.LogLevel, validation.Required,
			validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.Format, validation.Required,
			validation.In(FormatText, FormatJSON, FormatYAML, FormatSummary)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// APIKey returns the value of the first non-empty environment variable.
// When none is set the error wraps ErrMissingCredential and names the
// variables that were checked.
func APIKey(envVars ...string) (string, error) {
	for _, name := range envVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: set %s", ErrMissingCredential, strings.Join(envVars, " or "))
}
