package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "HTTP_PORT", "BACKEND_MODE", "HISTORY_WINDOW", "LLM_TIMEOUT_MS", "NAVIGATION_DELAY_MS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendLocal, cfg.BackendMode)
	assert.Equal(t, 10, cfg.HistoryWindow)
	assert.Equal(t, 20*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.NavigationDelay)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("BACKEND_MODE", BackendRemote)
	t.Setenv("LLM_TIMEOUT_MS", "500")
	t.Setenv("HISTORY_WINDOW", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, BackendRemote, cfg.BackendMode)
	assert.Equal(t, 500*time.Millisecond, cfg.LLMTimeout)
	assert.Equal(t, 10, cfg.HistoryWindow)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	content := `
http_port: 7070
backend_mode: remote
backend_url: http://backend:3000
llm_model: small-model
history_window: 4
action_timeout_ms: 2500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_MODEL", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, BackendRemote, cfg.BackendMode)
	assert.Equal(t, "http://backend:3000", cfg.BackendURL)
	assert.Equal(t, "small-model", cfg.LLMModel)
	assert.Equal(t, 4, cfg.HistoryWindow)
	assert.Equal(t, 2500*time.Millisecond, cfg.ActionTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: [1, 2"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{BackendMode: BackendLocal, LLMTimeout: time.Second, ActionTimeout: time.Second, HistoryWindow: 1}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.BackendMode = "ftp"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.ActionTimeout = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.HistoryWindow = 0
	assert.Error(t, bad.Validate())
}
