// Package api exposes the ticker list over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"market-ticker-go/infrastructure/logger"
	"market-ticker-go/ticker"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	wsWriteWait     = 5 * time.Second
)

// Lister 行情列表来源
type Lister interface {
	ListTickers() []ticker.Record
}

// SnapshotRecorder 记录 WebSocket 快照推送
type SnapshotRecorder interface {
	RecordWSSnapshot()
}

// TickerHandler 行情列表路由。响应体在构造时序列化一次，之后每次原样返回。
type TickerHandler struct {
	body     []byte
	count    int
	upgrader websocket.Upgrader
	recorder SnapshotRecorder
	logger   *logger.Logger
}

// NewTickerHandler recorder 和 log 可以为 nil。
func NewTickerHandler(src Lister, recorder SnapshotRecorder, log *logger.Logger) (*TickerHandler, error) {
	records := src.ListTickers()
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode tickers: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &TickerHandler{
		body:  body,
		count: len(records),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 只读快照，不区分来源
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		recorder: recorder,
		logger:   log,
	}, nil
}

// RegisterRoutes 在 group 下挂载 GET / 与 GET /ws
func (h *TickerHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.ListTickers)
	if !strings.HasSuffix(r.BasePath(), "/") {
		// 不带结尾斜杠的前缀本身也直接响应，避免 301
		r.GET("", h.ListTickers)
	}
	r.GET("/ws", h.Stream)
}

// ListTickers GET <prefix>/
func (h *TickerHandler) ListTickers(c *gin.Context) {
	c.Data(http.StatusOK, contentTypeJSON, h.body)
}

// Stream 升级为 WebSocket，推送一帧与 ListTickers 相同的 JSON 后正常关闭。
func (h *TickerHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写回错误响应
		h.logger.Debug("ws upgrade rejected")
		return
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, h.body); err != nil {
		h.logger.LogError(err, map[string]interface{}{"component": "api", "action": "ws_write"})
		return
	}
	if h.recorder != nil {
		h.recorder.RecordWSSnapshot()
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait))
}

// Count 序列化时的行情条数
func (h *TickerHandler) Count() int {
	return h.count
}
