package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
)

// Conn 发布所需的 NATS 连接子集
type Conn interface {
	Publish(subject string, data []byte) error
}

// Envelope 事件总线消息体
type Envelope struct {
	MatchID string                `json:"match_id"`
	Event   scoreboard.Event      `json:"event"`
	State   scoreboard.MatchState `json:"state"`
}

// Publisher 将比分变化发布到 NATS，主题为 <subject>.<kind>
type Publisher struct {
	conn    Conn
	subject string
	log     *zap.Logger
	closeFn func()
}

// Connect 连接 NATS 并返回发布器；name 为实例标识
func Connect(cfg cfgpkg.EventsConfig, name string, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	p := NewPublisher(nc, cfg.Subject, log)
	p.closeFn = func() { _ = nc.Drain() }
	return p, nil
}

// NewPublisher 基于已有连接创建发布器
func NewPublisher(conn Conn, subject string, log *zap.Logger) *Publisher {
	if subject == "" {
		subject = "scoreboard.state"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{conn: conn, subject: subject, log: log}
}

// Subject 事件对应的主题
func (p *Publisher) Subject(kind scoreboard.EventKind) string {
	return p.subject + "." + string(kind)
}

// Publish 发布一条事件
func (p *Publisher) Publish(ev scoreboard.Event, st scoreboard.MatchState) error {
	b, err := json.Marshal(Envelope{MatchID: st.MatchID, Event: ev, State: st})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(ev.Kind), b); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}
	return nil
}

// OnStateChange 实现 scoreboard.StateObserver；跳秒不发布
func (p *Publisher) OnStateChange(_ context.Context, ev scoreboard.Event, st scoreboard.MatchState) {
	if ev.Kind == scoreboard.EventClockTick {
		return
	}
	if err := p.Publish(ev, st); err != nil {
		p.log.Warn("publish state event failed", zap.Error(err))
	}
}

// Close 排空并关闭连接
func (p *Publisher) Close() {
	if p.closeFn != nil {
		p.closeFn()
	}
}
