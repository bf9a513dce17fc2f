package transport

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/metrics"
	"github.com/taoyao-code/scoreboard-server/internal/protocol/cpower"
)

// State 连接状态
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultReadTimeout    = 5 * time.Second

	readBufferSize = 1024
)

// Options 客户端参数
type Options struct {
	CardID         uint8
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	RatePerSec     int
	Burst          int
	Logger         *zap.Logger
	Metrics        *metrics.AppMetrics
}

// Client 控制卡 TCP 客户端，同一时刻只进行一次请求/应答交互
type Client struct {
	addr    string
	opts    Options
	limiter *SendLimiter
	log     *zap.Logger

	mu    sync.Mutex // 保护 conn，并串行化交互
	conn  net.Conn
	state atomic.Int32
}

// NewClient 创建客户端，不立即连接
func NewClient(addr string, opts Options) *Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		addr:    addr,
		opts:    opts,
		limiter: NewSendLimiter(opts.RatePerSec, opts.Burst),
		log:     log.With(zap.String("card_addr", addr)),
	}
}

// Addr 控制卡地址
func (c *Client) Addr() string { return c.addr }

// State 当前连接状态
func (c *Client) State() State { return State(c.state.Load()) }

// IsConnected 是否已连接
func (c *Client) IsConnected() bool { return c.State() == Connected }

// Limiter 返回下行限流器（用于统计）
func (c *Client) Limiter() *SendLimiter { return c.limiter }

// Connect 建立连接；已连接时直接返回
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	c.setState(Connecting)

	d := net.Dialer{Timeout: c.opts.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		c.setState(Disconnected)
		return &ConnectError{Addr: c.addr, Err: err}
	}
	c.conn = conn
	c.setState(Connected)
	c.log.Info("connected to control card")
	return nil
}

// Disconnect 关闭连接
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
		c.log.Info("disconnected from control card")
	}
	c.setState(Disconnected)
}

// EnsureConnection 未连接时尝试连接
func (c *Client) EnsureConnection(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}
	return c.Connect(ctx)
}

// SendCommand 发送一条命令并等待应答。
// 返回 (nil, nil) 表示控制卡未在读超时内给出有效应答；应答仅作参考。
func (c *Client) SendCommand(ctx context.Context, cmd cpower.Command) ([]byte, error) {
	payload := cpower.EncodeCommand(cmd)
	if len(payload) == 0 {
		c.countFrame(cmd, "unsupported")
		return nil, ErrUnsupportedCommand
	}

	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if c.opts.Metrics != nil {
		c.opts.Metrics.ThrottleWait.Observe(time.Since(start).Seconds())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		c.countFrame(cmd, "error")
		return nil, err
	}

	frame := cpower.Encode(c.opts.CardID, payload)
	_ = c.conn.SetWriteDeadline(c.deadline(ctx))
	if _, err := c.conn.Write(frame); err != nil {
		c.countFrame(cmd, "error")
		c.log.Warn("write frame failed", zap.String("kind", cmd.Kind()), zap.Error(err))
		c.closeLocked()
		return nil, &IOError{Op: "write", Err: err}
	}
	c.countFrame(cmd, "ok")
	if c.opts.Metrics != nil {
		c.opts.Metrics.BytesWritten.Add(float64(len(frame)))
	}

	return c.readResponseLocked(ctx, cmd), nil
}

// readResponseLocked 读一次应答；超时/EOF/坏帧都视为无应答
func (c *Client) readResponseLocked(ctx context.Context, cmd cpower.Command) []byte {
	_ = c.conn.SetReadDeadline(c.deadline(ctx))
	buf := make([]byte, readBufferSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		var ne net.Error
		if !(errors.As(err, &ne) && ne.Timeout()) {
			c.log.Debug("read response failed", zap.String("kind", cmd.Kind()), zap.Error(err))
		}
		c.countTimeout()
		return nil
	}
	f, err := cpower.Decode(buf[:n])
	if err != nil {
		c.log.Debug("invalid response frame", zap.String("kind", cmd.Kind()), zap.Error(err))
		c.countTimeout()
		return nil
	}
	return f.Payload
}

// SendKeepAlive 发送版本查询作为保活探测；失败时断开连接
func (c *Client) SendKeepAlive(ctx context.Context) bool {
	if _, err := c.SendCommand(ctx, cpower.QueryVersion{}); err != nil {
		c.log.Warn("keep-alive failed", zap.Error(err))
		c.Disconnect()
		return false
	}
	return true
}

// deadline 读写截止时间取 ReadTimeout 与 ctx 截止时间中较早者
func (c *Client) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(c.opts.ReadTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(d) {
		return dl
	}
	return d
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
	if c.opts.Metrics != nil {
		up := 0.0
		if s == Connected {
			up = 1
		}
		c.opts.Metrics.LinkUp.Set(up)
	}
}

func (c *Client) countFrame(cmd cpower.Command, result string) {
	if c.opts.Metrics != nil {
		c.opts.Metrics.FramesSent.WithLabelValues(cmd.Kind(), result).Inc()
	}
}

func (c *Client) countTimeout() {
	if c.opts.Metrics != nil {
		c.opts.Metrics.ResponseTimeouts.Inc()
	}
}
