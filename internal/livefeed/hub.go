package livefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/metrics"
	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
)

// Config websocket 参数
type Config struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	CheckOrigin    func(r *http.Request) bool
}

// DefaultConfig 默认参数
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   10 * time.Second,
		PongTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 512,
		SendBuffer:     64,
		CheckOrigin:    func(*http.Request) bool { return true },
	}
}

// Message 推送给页面的消息
type Message struct {
	Type  string                `json:"type"` // snapshot | update
	Event *scoreboard.Event     `json:"event,omitempty"`
	State scoreboard.MatchState `json:"state"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub 比分实时推送：每个页面一个连接，状态变化广播给全部连接
type Hub struct {
	cfg      Config
	upgrader websocket.Upgrader
	snapshot func() scoreboard.MatchState
	log      *zap.Logger
	metrics  *metrics.AppMetrics

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub 创建推送中心；snapshot 用于新连接的首帧
func NewHub(cfg Config, snapshot func() scoreboard.MatchState, log *zap.Logger, m *metrics.AppMetrics) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
		snapshot: snapshot,
		log:      log,
		metrics:  m,
		clients:  make(map[*client]struct{}),
	}
}

// ServeWS 升级连接并推送首帧快照
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, h.cfg.SendBuffer)}

	if b, err := json.Marshal(Message{Type: "snapshot", State: h.snapshot()}); err == nil {
		c.send <- b
	}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnStateChange 实现 scoreboard.StateObserver；慢连接丢弃消息而不阻塞控制器
func (h *Hub) OnStateChange(_ context.Context, ev scoreboard.Event, st scoreboard.MatchState) {
	b, err := json.Marshal(Message{Type: "update", Event: &ev, State: st})
	if err != nil {
		h.log.Error("marshal live message failed", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Debug("live client too slow, dropping update", zap.String("client_id", c.id))
		}
	}
}

// Close 断开全部连接
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		close(c.send)
	}
	h.setGauge(0)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.setGauge(n)
	h.log.Debug("live client connected", zap.String("client_id", c.id), zap.Int("clients", n))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.setGauge(n)
		h.log.Debug("live client disconnected", zap.String("client_id", c.id), zap.Int("clients", n))
	}
}

func (h *Hub) setGauge(n int) {
	if h.metrics != nil {
		h.metrics.LiveClients.Set(float64(n))
	}
}

// readPump 只处理 pong 与关闭；页面不发送业务消息
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(h.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
