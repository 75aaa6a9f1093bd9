package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
env: prod
http:
  addr: ":8081"
  routePrefix: /v1/tickers
metrics:
  addr: ""
log:
  level: warn
  format: console
tickers:
  file: /etc/tickerd/tickers.yaml
watch:
  enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":8081", cfg.HTTP.Addr)
	assert.Equal(t, "/v1/tickers", cfg.HTTP.RoutePrefix)
	assert.Equal(t, "release", cfg.HTTP.Mode, "default kept when not set in file")
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"stdout"}, cfg.Log.Outputs)
	assert.Equal(t, "/etc/tickerd/tickers.yaml", cfg.Tickers.File)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeTempConfig(t, "http: [::"))
	assert.Error(t, err)

	_, err = Load(writeTempConfig(t, "log:\n  level: loud\n"))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
env: prod
http:
  addr: ":8081"
`)
	t.Setenv("TICKERD_HTTP_ADDR", ":9999")
	t.Setenv("TICKERD_LOG_LEVEL", "debug")
	t.Setenv("TICKERD_LOG_OUTPUTS", "stdout,file")
	t.Setenv("TICKERD_LOG_OUTPUT_FILE", "/tmp/tickerd.log")
	t.Setenv("TICKERD_TICKERS_FILE", "/data/tickers.yaml")

	cfg, err := LoadWithEnvOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Log.Outputs)
	assert.Equal(t, "/data/tickers.yaml", cfg.Tickers.File)
	assert.Equal(t, "/api/tickers", cfg.HTTP.RoutePrefix)
}

func TestLoadWithEnvOverrides_InvalidResult(t *testing.T) {
	t.Setenv("TICKERD_HTTP_ROUTE_PREFIX", "tickers")
	_, err := LoadWithEnvOverrides("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	err := Validate(AppConfig{})
	if err == nil {
		t.Fatalf("expected error for empty config")
	}

	cases := map[string]func(*AppConfig){
		"no_addr":         func(c *AppConfig) { c.HTTP.Addr = "" },
		"bad_prefix":      func(c *AppConfig) { c.HTTP.RoutePrefix = "api" },
		"bad_mode":        func(c *AppConfig) { c.HTTP.Mode = "prod" },
		"bad_format":      func(c *AppConfig) { c.Log.Format = "xml" },
		"no_outputs":      func(c *AppConfig) { c.Log.Outputs = nil },
		"file_no_path":    func(c *AppConfig) { c.Log.Outputs = []string{"file"} },
		"unknown_output":  func(c *AppConfig) { c.Log.Outputs = []string{"syslog"} },
		"negative_window": func(c *AppConfig) { c.Watch.DebounceMs = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
	assert.NoError(t, Validate(Default()))
}
