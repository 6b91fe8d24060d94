package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Service.BaseURL)
	assert.Equal(t, "perplexity", cfg.Service.ModelChoice)
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.Equal(t, 90*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 60, cfg.Details.MaxAttempts)
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  base_url: http://shop.internal:9000
  model_choice: hybrid
details:
  poll_interval: 500ms
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://shop.internal:9000", cfg.Service.BaseURL)
	assert.Equal(t, "hybrid", cfg.Service.ModelChoice)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval())
	// Untouched fields keep their defaults.
	assert.Equal(t, 60, cfg.Details.MaxAttempts)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SHOPSCOUT_API_URL", "http://override:8000")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://override:8000", cfg.Service.BaseURL)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Service.ModelChoice = "openai"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", loaded.Service.ModelChoice)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Timeout = "garbage"
	cfg.Details.PollInterval = "-5s"

	assert.Equal(t, 90*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	changed := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, nil)
	require.NoError(t, err)
	w.debounceDur = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.Service.ModelChoice = "hybrid"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-changed:
		assert.Equal(t, "hybrid", got.Service.ModelChoice)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not observe config change")
	}
}
