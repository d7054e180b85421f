package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nkaewam/catalogctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 1, cfg.Submit.BatchConcurrency)
	assert.Equal(t, 6, cfg.Picker.MaxSelection)
	assert.NotEmpty(t, cfg.Session.StorePath)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "catalogctl.yaml")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.API.BaseURL = "https://admin.example.com"
	cfg.API.Timeout = 5 * time.Second
	cfg.Submit.BatchConcurrency = 3
	require.NoError(t, cfg.Save(path))

	reloaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://admin.example.com", reloaded.API.BaseURL)
	assert.Equal(t, 5*time.Second, reloaded.API.Timeout)
	assert.Equal(t, 3, reloaded.Submit.BatchConcurrency)
}

func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CATALOGCTL_API_BASE_URL", "http://backend:8080")
	t.Setenv("CATALOGCTL_PICKER_MAX_SELECTION", "3")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8080", cfg.API.BaseURL)
	assert.Equal(t, 3, cfg.Picker.MaxSelection)
}

func TestDotEnvIsLoaded(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOGCTL_SUBMIT_BATCH_CONCURRENCY=4\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CATALOGCTL_SUBMIT_BATCH_CONCURRENCY") })

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Submit.BatchConcurrency)
}

func TestValidateRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CATALOGCTL_SUBMIT_BATCH_CONCURRENCY", "0")

	_, err := config.LoadConfig("")
	assert.ErrorContains(t, err, "batch_concurrency")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
