package container

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"market-ticker-go/api"
	"market-ticker-go/config"
	"market-ticker-go/infrastructure/logger"
	"market-ticker-go/infrastructure/monitor"
	"market-ticker-go/ticker"
)

// Container 依赖注入容器，管理所有组件的生命周期
type Container struct {
	// 配置
	cfg        config.AppConfig
	configPath string

	// 基础设施
	logger  *logger.Logger
	monitor *monitor.Monitor

	// 核心服务
	provider *ticker.Provider
	router   *gin.Engine

	// HTTP服务器
	apiServer     *httpServerComponent
	metricsServer *httpServerComponent

	// 生命周期管理
	lifecycle *LifecycleManager
}

// New 加载配置（文件 + 环境变量）并创建Container
func New(configPath string) (*Container, error) {
	cfg, err := config.LoadWithEnvOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(cfg, configPath), nil
}

// NewWithConfig 使用已加载的配置创建Container。configPath 仅用于热加载监听。
func NewWithConfig(cfg config.AppConfig, configPath string) *Container {
	return &Container{
		cfg:        cfg,
		configPath: configPath,
		lifecycle:  NewLifecycleManager(),
	}
}

// Build 构建所有组件。行情列表加载失败返回 ticker.ErrInitialization。
func (c *Container) Build() error {
	if err := c.buildInfrastructure(); err != nil {
		return fmt.Errorf("build infrastructure failed: %w", err)
	}

	if err := c.buildCoreServices(); err != nil {
		return fmt.Errorf("build core services failed: %w", err)
	}

	if err := c.registerLifecycleComponents(); err != nil {
		return fmt.Errorf("register components failed: %w", err)
	}

	c.logger.Info("container built successfully", zap.String("env", c.cfg.Env))
	return nil
}

func (c *Container) buildInfrastructure() error {
	logCfg := logger.Config{
		Level:      c.cfg.Log.Level,
		Outputs:    c.cfg.Log.Outputs,
		OutputFile: c.cfg.Log.OutputFile,
		ErrorFile:  c.cfg.Log.ErrorFile,
		Format:     c.cfg.Log.Format,
	}

	var err error
	c.logger, err = logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("create logger failed: %w", err)
	}

	c.monitor = monitor.New(monitor.DefaultConfig())
	return nil
}

func (c *Container) buildCoreServices() error {
	records, err := ticker.Load(c.cfg.Tickers.File)
	if err != nil {
		return err
	}
	c.provider, err = ticker.NewProvider(records)
	if err != nil {
		return err
	}
	c.monitor.SetTickersConfigured(c.provider.Len())

	source := c.cfg.Tickers.File
	if source == "" {
		source = "reference"
	}
	c.logger.Info("ticker list loaded", zap.String("source", source), zap.Int("count", c.provider.Len()))

	handler, err := api.NewTickerHandler(c.provider, c.monitor, c.logger.WithFields(map[string]interface{}{"component": "api"}))
	if err != nil {
		return err
	}
	c.router = api.NewRouter(handler, api.Options{
		RoutePrefix: c.cfg.HTTP.RoutePrefix,
		Mode:        c.cfg.HTTP.Mode,
		Logger:      c.logger,
		Metrics:     c.monitor,
	})
	return nil
}

func (c *Container) registerLifecycleComponents() error {
	c.apiServer = &httpServerComponent{
		name:    "api_server",
		handler: c.router,
		addr:    c.cfg.HTTP.Addr,
		logger:  c.logger,
	}
	c.lifecycle.Register(c.apiServer)

	if c.cfg.Metrics.Addr != "" {
		c.metricsServer = &httpServerComponent{
			name:    "metrics_server",
			handler: c.monitor.Handler(),
			addr:    c.cfg.Metrics.Addr,
			logger:  c.logger,
		}
		c.lifecycle.Register(c.metricsServer)
	}

	if c.cfg.Watch.Enabled && c.configPath != "" {
		w, err := config.NewWatcher(c.configPath,
			time.Duration(c.cfg.Watch.DebounceMs)*time.Millisecond,
			c.applyConfig,
			func(err error) {
				c.monitor.RecordConfigReload("error")
				c.logger.LogError(err, map[string]interface{}{"component": "config_watcher"})
			})
		if err != nil {
			return err
		}
		c.lifecycle.Register(&watcherComponent{watcher: w})
	}
	return nil
}

// applyConfig 热加载只生效日志级别；行情列表与监听地址需要重启
func (c *Container) applyConfig(cfg config.AppConfig) {
	c.monitor.RecordConfigReload("ok")
	if cfg.Log.Level != c.logger.Level().String() {
		if err := c.logger.SetLevel(cfg.Log.Level); err != nil {
			c.logger.LogError(err, map[string]interface{}{"component": "config_watcher"})
			return
		}
		c.logger.Info("log level changed", zap.String("level", cfg.Log.Level))
	}
	if cfg.Tickers.File != c.cfg.Tickers.File || cfg.HTTP != c.cfg.HTTP || cfg.Metrics != c.cfg.Metrics {
		c.logger.Warn("config change requires restart to take effect")
	}
}

func (c *Container) Start(ctx context.Context) error {
	c.logger.Info("starting container...")

	if err := c.lifecycle.StartAll(ctx); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}

	c.logger.Info("container started", zap.String("api_addr", c.APIAddr()))
	return nil
}

func (c *Container) Stop() error {
	c.logger.Info("stopping container...")

	err := c.lifecycle.StopAll()
	if err != nil {
		c.logger.LogError(err, map[string]interface{}{"action": "stop"})
	}
	_ = c.logger.Close()
	return err
}

func (c *Container) HealthCheck() error {
	return c.lifecycle.CheckHealth()
}

// APIAddr API 实际监听地址，未启动时为空
func (c *Container) APIAddr() string {
	if c.apiServer == nil {
		return ""
	}
	return c.apiServer.Addr()
}

// MetricsAddr 指标实际监听地址，未启用或未启动时为空
func (c *Container) MetricsAddr() string {
	if c.metricsServer == nil {
		return ""
	}
	return c.metricsServer.Addr()
}

func (c *Container) Logger() *logger.Logger {
	return c.logger
}
