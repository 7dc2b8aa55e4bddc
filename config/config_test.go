package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("semgen", pflag.ContinueOnError)
	DefineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)
	require.Equal(t, DefaultModel, cfg.Model)
	require.Equal(t, FormatText, cfg.Format)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 0, cfg.MaxRetries)
	require.Equal(t, time.Duration(0), cfg.Timeout)
	require.Empty(t, cfg.Endpoint)
	require.Empty(t, cfg.BigQueryTable)
}

func TestLoadFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(newFlagSet(t,
		"--model", "claude-sonnet-4-5",
		"--format", "YAML",
		"--max-retries", "2",
		"--timeout", "30s",
		"--endpoint", "http://localhost:8080/v1",
		"--bigquery-table", "proj.sales.orders",
	))
	require.NoError(t, err)
	require.Equal(t, "claude-sonnet-4-5", cfg.Model)
	require.Equal(t, FormatYAML, cfg.Format)
	require.Equal(t, 2, cfg.MaxRetries)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Equal(t, "http://localhost:8080/v1", cfg.Endpoint)
	require.Equal(t, "proj.sales.orders", cfg.BigQueryTable)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEMGEN_MODEL", "gemini-2.5-flash")
	t.Setenv("SEMGEN_LOG_LEVEL", "debug")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-flash", cfg.Model)
	require.Equal(t, "debug", cfg.LogLevel)

	// Explicit flags win over the environment
	cfg, err = Load(newFlagSet(t, "--model", "gpt-4o-mini"))
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestLoadInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "format", args: []string{"--format", "xml"}, want: "Format"},
		{name: "log level", args: []string{"--log-level", "loud"}, want: "LogLevel"},
		{name: "retries", args: []string{"--max-retries=-1"}, want: "MaxRetries"},
		{name: "endpoint", args: []string{"--endpoint", "not a url"}, want: "Endpoint"},
		{name: "model", args: []string{"--model", " "}, want: "Model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFlagSet(t, tt.args...))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv("SEMGEN_TEST_KEY_A", "")
	t.Setenv("SEMGEN_TEST_KEY_B", "secret")

	key, err := APIKey("SEMGEN_TEST_KEY_A", "SEMGEN_TEST_KEY_B")
	require.NoError(t, err)
	require.Equal(t, "secret", key)

	t.Setenv("SEMGEN_TEST_KEY_B", "")
	_, err = APIKey("SEMGEN_TEST_KEY_A", "SEMGEN_TEST_KEY_B")
	require.True(t, errors.Is(err, ErrMissingCredential))
	require.Contains(t, err.Error(), "SEMGEN_TEST_KEY_A or SEMGEN_TEST_KEY_B")
}
