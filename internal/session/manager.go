package session

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/metrics"
)

const (
	DefaultKeepAliveInterval = 30 * time.Second
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 60 * time.Second
)

// Link 被管理的控制卡链路（transport.Client 实现）
type Link interface {
	Connect(ctx context.Context) error
	SendKeepAlive(ctx context.Context) bool
	IsConnected() bool
}

// Options 链路管理参数
type Options struct {
	KeepAliveInterval time.Duration
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Clock             clockwork.Clock
	Logger            *zap.Logger
	Metrics           *metrics.AppMetrics

	// OnReconnect 重连成功后回调（重建窗口并全量刷新）
	OnReconnect func(ctx context.Context) error
	// OnLinkChange 链路状态变化通知
	OnLinkChange func(connected bool)
}

// Manager 保活探测 + 指数退避重连
type Manager struct {
	link  Link
	opts  Options
	clock clockwork.Clock
	log   *zap.Logger
}

// NewManager 创建链路管理器
func NewManager(link Link, opts Options) *Manager {
	if opts.KeepAliveInterval <= 0 {
		opts.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = DefaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = DefaultMaxBackoff
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{link: link, opts: opts, clock: opts.Clock, log: log}
}

// NextBackoff 第 attempt 次重连前的等待时间：1s 起翻倍，上限 60s
func NextBackoff(attempt int) time.Duration {
	return backoff(attempt, DefaultInitialBackoff, DefaultMaxBackoff)
}

func backoff(attempt int, initial, ceiling time.Duration) time.Duration {
	d := initial
	for i := 1; i < attempt && d < ceiling; i++ {
		d *= 2
	}
	if d > ceiling {
		d = ceiling
	}
	return d
}

// Run 阻塞运行直到 ctx 取消；错误只记录日志
func (m *Manager) Run(ctx context.Context) {
	ticker := m.clock.NewTicker(m.opts.KeepAliveInterval)
	defer ticker.Stop()

	m.log.Info("link manager started", zap.Duration("keepalive", m.opts.KeepAliveInterval))
	for {
		select {
		case <-ctx.Done():
			m.log.Info("link manager stopped")
			return
		case <-ticker.Chan():
			// 保活命令会自动拨号：探测前离线、探测后在线同样视为重连
			wasUp := m.link.IsConnected()
			if m.probe(ctx) {
				if !wasUp {
					m.countReconnect("ok")
					m.log.Info("control card back online via keep-alive")
					m.recovered(ctx)
				}
				continue
			}
			m.notify(false)
			m.reconnect(ctx)
		}
	}
}

func (m *Manager) probe(ctx context.Context) bool {
	ok := m.link.SendKeepAlive(ctx)
	if m.opts.Metrics != nil {
		result := "ok"
		if !ok {
			result = "fail"
		}
		m.opts.Metrics.KeepAliveTotal.WithLabelValues(result).Inc()
	}
	if !ok {
		m.log.Warn("keep-alive probe failed, reconnecting")
	}
	return ok
}

// reconnect 退避重试直到成功或 ctx 取消
func (m *Manager) reconnect(ctx context.Context) {
	for attempt := 1; ; attempt++ {
		wait := backoff(attempt, m.opts.InitialBackoff, m.opts.MaxBackoff)
		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(wait):
		}

		if err := m.link.Connect(ctx); err != nil {
			m.countReconnect("fail")
			m.log.Warn("reconnect failed",
				zap.Int("attempt", attempt),
				zap.Duration("next_in", backoff(attempt+1, m.opts.InitialBackoff, m.opts.MaxBackoff)),
				zap.Error(err))
			continue
		}

		m.countReconnect("ok")
		m.log.Info("reconnected to control card", zap.Int("attempts", attempt))
		m.recovered(ctx)
		return
	}
}

// recovered 链路恢复：通知在线并重建窗口、全量刷新
func (m *Manager) recovered(ctx context.Context) {
	m.notify(true)
	if m.opts.OnReconnect != nil {
		if err := m.opts.OnReconnect(ctx); err != nil {
			m.log.Warn("post-reconnect refresh failed", zap.Error(err))
		}
	}
}

func (m *Manager) notify(connected bool) {
	if m.opts.OnLinkChange != nil {
		m.opts.OnLinkChange(connected)
	}
}

func (m *Manager) countReconnect(result string) {
	if m.opts.Metrics != nil {
		m.opts.Metrics.ReconnectTotal.WithLabelValues(result).Inc()
	}
}
