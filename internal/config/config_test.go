package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/workup/internal/cost"
	"github.com/steveyegge/workup/internal/errs"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"WORKUP_PROVIDER", "WORKUP_MODEL", "WORKUP_BASE_URL", "WORKUP_LANGUAGE", "WORKUP_MAX_TOKENS", "WORKUP_MAX_SESSION_TOKENS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "workup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: gemini
model: gemini-2.5-pro
timeout: 2m
max_tokens: 1024
language: javascript
output_dir: out
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "javascript", cfg.Language)
	assert.Equal(t, "out", cfg.OutputDir)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKUP_MODEL", "claude-x")
	t.Setenv("WORKUP_MAX_TOKENS", "99")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "claude-x", cfg.Model)
	assert.Equal(t, 99, cfg.MaxTokens)
}

func TestLoad_BadEnvInt(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKUP_MAX_TOKENS", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKUP_MAX_TOKENS")
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing YAML")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Provider = "openai"
	assert.True(t, errors.Is(cfg.Validate(), errs.ErrUnsupportedFormat))

	cfg = Default()
	cfg.Language = "cobol"
	assert.True(t, errors.Is(cfg.Validate(), errs.ErrUnsupportedFormat))

	cfg = Default()
	cfg.MaxTokens = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = "soon"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxSessionTokens = -1
	assert.Error(t, cfg.Validate())
}

func TestUsageTracker(t *testing.T) {
	t.Setenv("WORKUP_MODEL", "")
	cfg := Default()
	cfg.MaxSessionTokens = 100

	tr := cfg.UsageTracker()
	tr.RecordUsage(1_000_000, 0)
	stats := tr.Stats()
	assert.Equal(t, int64(100), stats.MaxTokens)
	assert.InDelta(t, 3.00, stats.Cost, 1e-9)
	assert.ErrorIs(t, tr.Check(), cost.ErrBudgetExceeded)
}

func TestTimeoutDuration(t *testing.T) {
	cfg := Default()
	cfg.Timeout = "1h30m"
	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	cfg.Timeout = ""
	d, err = cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, d)

	for _, bad := range []string{"1d", "1d12h", "2w", "30s later"} {
		cfg.Timeout = bad
		_, err := cfg.TimeoutDuration()
		assert.Error(t, err, bad)
		assert.Error(t, cfg.Validate(), bad)
	}
}

func TestGateway(t *testing.T) {
	cfg := Default()
	cfg.APIKeyEnv = "MY_LLM_KEY"
	cfg.Model = "m"

	t.Setenv("MY_LLM_KEY", "")
	_, err := cfg.Gateway()
	require.Error(t, err)

	t.Setenv("MY_LLM_KEY", "secret")
	gc, err := cfg.Gateway()
	require.NoError(t, err)
	assert.Equal(t, "secret", gc.APIKey)
	assert.Equal(t, "m", gc.Model)
	assert.Equal(t, 60*time.Second, gc.Timeout)
}

func TestSaveDefault_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultPath)

	require.NoError(t, SaveDefault(path))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
