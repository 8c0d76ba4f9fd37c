package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/otpcode/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.ShowNext)
	assert.Equal(t, "OTPCODE_SECRET", cfg.SecretEnv)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "verbose: true\nshow_next: true\nsecret_env: MY_TOTP\nbatch:\n  concurrency: 4\n")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.ShowNext)
	assert.Equal(t, "MY_TOTP", cfg.SecretEnv)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "otpcode"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otpcode", "config.yaml"), []byte("show_next: true\n"), 0o600))

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.True(t, cfg.ShowNext)
	assert.Equal(t, filepath.Join(dir, "otpcode", "config.yaml"), cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "batch:\n  concurrency: 4\n")
	t.Setenv("OTPCODE_BATCH_CONCURRENCY", "16")
	t.Setenv("OTPCODE_VERBOSE", "true")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Batch.Concurrency)
	assert.True(t, cfg.Verbose)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config")
	})

	t.Run("concurrency out of range", func(t *testing.T) {
		path := writeConfig(t, "batch:\n  concurrency: 0\n")
		_, err := Load(New(), path)
		assert.ErrorContains(t, err, "Concurrency")
	})

	t.Run("concurrency above maximum", func(t *testing.T) {
		path := writeConfig(t, fmt.Sprintf("batch:\n  concurrency: %d\n", constants.MaxBatchConcurrency+1))
		_, err := Load(New(), path)
		assert.ErrorContains(t, err, "Concurrency")
		assert.ErrorContains(t, err, `failed "max"`)
	})

	t.Run("empty secret env", func(t *testing.T) {
		path := writeConfig(t, "secret_env: \"\"\n")
		_, err := Load(New(), path)
		assert.ErrorContains(t, err, "SecretEnv")
	})
}

func TestLoad_ConcurrencyAtMaximum(t *testing.T) {
	isolate(t)
	t.Setenv("OTPCODE_BATCH_CONCURRENCY", fmt.Sprint(constants.MaxBatchConcurrency))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, constants.MaxBatchConcurrency, cfg.Batch.Concurrency)
}
