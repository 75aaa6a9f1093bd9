package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"market-ticker-go/infrastructure/logger"
)

// RequestRecorder 记录请求指标
type RequestRecorder interface {
	RecordHTTPRequest(route, method, status string, seconds float64)
}

// Options 路由配置。Logger/Metrics 为 nil 时跳过对应中间件。
type Options struct {
	RoutePrefix string
	Mode        string
	Logger      *logger.Logger
	Metrics     RequestRecorder
}

// NewRouter 构建 gin engine：recovery、请求日志、请求指标、/healthz 以及行情路由组。
func NewRouter(h *TickerHandler, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.RoutePrefix == "" {
		opts.RoutePrefix = "/"
	}

	e := gin.New()
	e.Use(gin.Recovery())
	if opts.Metrics != nil {
		e.Use(metricsMiddleware(opts.Metrics))
	}
	if opts.Logger != nil {
		e.Use(loggingMiddleware(opts.Logger))
	}

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"tickers": h.Count(),
		})
	})

	h.RegisterRoutes(e.Group(opts.RoutePrefix))
	return e
}

func metricsMiddleware(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordHTTPRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"client_ip": c.ClientIP(),
			"bytes":     c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		log.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), fields)
	}
}
