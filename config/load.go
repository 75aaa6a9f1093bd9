package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量覆盖前缀，例如 TICKERD_HTTP_ADDR。
const EnvPrefix = "TICKERD_"

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env     string        `yaml:"env" env:"ENV"`
	HTTP    HTTPConfig    `yaml:"http" envPrefix:"HTTP_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Tickers TickersConfig `yaml:"tickers" envPrefix:"TICKERS_"`
	Watch   WatchConfig   `yaml:"watch" envPrefix:"WATCH_"`
}

type HTTPConfig struct {
	Addr        string `yaml:"addr" env:"ADDR"`
	RoutePrefix string `yaml:"routePrefix" env:"ROUTE_PREFIX"` // 行情路由挂载前缀
	Mode        string `yaml:"mode" env:"MODE"`                // gin 模式: release / debug / test
}

// MetricsConfig Addr 为空时不启动指标监听。
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

type LogConfig struct {
	Level      string   `yaml:"level" env:"LEVEL"`
	Format     string   `yaml:"format" env:"FORMAT"`
	Outputs    []string `yaml:"outputs" env:"OUTPUTS" envSeparator:","`
	OutputFile string   `yaml:"outputFile" env:"OUTPUT_FILE"`
	ErrorFile  string   `yaml:"errorFile" env:"ERROR_FILE"`
}

// TickersConfig File 为空时使用内置参考数据。
type TickersConfig struct {
	File string `yaml:"file" env:"FILE"`
}

type WatchConfig struct {
	Enabled    bool `yaml:"enabled" env:"ENABLED"`
	DebounceMs int  `yaml:"debounceMs" env:"DEBOUNCE_MS"` // 连续写入合并窗口
}

// Default 返回默认配置，文件和环境变量在此基础上覆盖。
func Default() AppConfig {
	return AppConfig{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:        ":8080",
			RoutePrefix: "/api/tickers",
			Mode:        "release",
		},
		Metrics: MetricsConfig{Addr: ":9100"},
		Log: LogConfig{
			Level:   "info",
			Format:  "json",
			Outputs: []string{"stdout"},
		},
		Watch: WatchConfig{DebounceMs: 500},
	}
}

// Load reads YAML config from path on top of defaults and applies basic validation.
// An empty path yields the defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides fields from TICKERD_* env vars
// (and a .env file in the working directory, if any).
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	_ = godotenv.Load()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, Validate(cfg)
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if !strings.HasPrefix(cfg.HTTP.RoutePrefix, "/") {
		return fmt.Errorf("http.routePrefix must start with /, got %q", cfg.HTTP.RoutePrefix)
	}
	switch cfg.HTTP.Mode {
	case "release", "debug", "test":
	default:
		return fmt.Errorf("http.mode %q is not one of release/debug/test", cfg.HTTP.Mode)
	}
	if !logLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level %q is not one of debug/info/warn/error", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return fmt.Errorf("log.format %q is not json or console", cfg.Log.Format)
	}
	if len(cfg.Log.Outputs) == 0 {
		return errors.New("log.outputs is required")
	}
	for _, o := range cfg.Log.Outputs {
		if o != "stdout" && o != "file" {
			return fmt.Errorf("log.outputs contains unknown output %q", o)
		}
		if o == "file" && cfg.Log.OutputFile == "" {
			return errors.New("log.outputFile is required when outputs contains file")
		}
	}
	if cfg.Watch.DebounceMs < 0 {
		return errors.New("watch.debounceMs must be >= 0")
	}
	return nil
}
