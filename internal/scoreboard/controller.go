package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/metrics"
	"github.com/taoyao-code/scoreboard-server/internal/protocol/cpower"
)

// Device 控制卡链路（transport.Client 实现）
type Device interface {
	Connect(ctx context.Context) error
	EnsureConnection(ctx context.Context) error
	SendCommand(ctx context.Context, cmd cpower.Command) ([]byte, error)
	IsConnected() bool
}

// Options 控制器参数
type Options struct {
	Simulation bool
	Rugby      config.RugbyConfig
	Layout     *cpower.Layout
	Clock      clockwork.Clock
	Logger     *zap.Logger
	Metrics    *metrics.AppMetrics
	Journal    Journal
}

// Controller 比赛状态的唯一持有者，所有变更都经由此处并刷新屏幕
type Controller struct {
	device     Device
	simulation bool
	rugby      config.RugbyConfig
	layout     cpower.Layout
	clock      clockwork.Clock
	log        *zap.Logger
	metrics    *metrics.AppMetrics
	journal    Journal

	mu          sync.Mutex // 保护 state 与时钟任务句柄
	state       MatchState
	clockCancel context.CancelFunc
	clockDone   chan struct{}

	// refreshMu 串行化整屏刷新，保证最后一次刷新推送的是最新快照
	refreshMu sync.Mutex

	obsMu     sync.RWMutex
	observers []StateObserver
}

// New 创建控制器；模拟模式下 device 可为 nil
func New(device Device, opts Options) (*Controller, error) {
	if !opts.Simulation && device == nil {
		return nil, errors.New("scoreboard: device required outside simulation mode")
	}
	layout := cpower.StandardLayout()
	if opts.Layout != nil {
		layout = *opts.Layout
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	st := NewMatchState(opts.Simulation)
	st.MatchID = uuid.NewString()
	return &Controller{
		device:     device,
		simulation: opts.Simulation,
		rugby:      opts.Rugby,
		layout:     layout,
		clock:      opts.Clock,
		log:        log,
		metrics:    opts.Metrics,
		journal:    opts.Journal,
		state:      st,
	}, nil
}

// Subscribe 注册状态订阅者
func (c *Controller) Subscribe(o StateObserver) {
	c.obsMu.Lock()
	c.observers = append(c.observers, o)
	c.obsMu.Unlock()
}

// Rugby 计分规则（只读）
func (c *Controller) Rugby() config.RugbyConfig { return c.rugby }

// Simulation 是否模拟模式
func (c *Controller) Simulation() bool { return c.simulation }

// Initialize 连接控制卡、划分窗口并整屏刷新；重连后也会再次调用
func (c *Controller) Initialize(ctx context.Context) error {
	if c.simulation {
		c.log.Info("initializing scoreboard in simulation mode")
		c.setConnected(true)
		return nil
	}

	c.log.Info("initializing scoreboard display")
	if err := c.device.Connect(ctx); err != nil {
		c.setDirty(true)
		return fmt.Errorf("initialize: %w", err)
	}
	create := cpower.DisplayMessage{Display: cpower.CreateWindows{Windows: c.layout.Windows()}}
	if _, err := c.device.SendCommand(ctx, create); err != nil {
		c.setDirty(true)
		return fmt.Errorf("create windows: %w", err)
	}
	c.setConnected(true)

	if err := c.refresh(ctx); err != nil {
		return err
	}
	c.log.Info("scoreboard initialized")
	return nil
}

// Restore 从快照恢复比赛数据（计时停止，链路状态不恢复）
func (c *Controller) Restore(st MatchState) {
	c.mu.Lock()
	cur := c.state
	if st.MatchID != "" {
		cur.MatchID = st.MatchID
	}
	cur.HomeTeam, cur.AwayTeam = st.HomeTeam, st.AwayTeam
	cur.HomeScore, cur.AwayScore = st.HomeScore, st.AwayScore
	cur.setTimer(st.TimerMinutes, st.TimerSeconds)
	cur.CurrentPeriod = st.CurrentPeriod
	cur.PeriodTimeRemaining = st.PeriodTimeRemaining
	cur.TimerRunning = false
	c.state = cur
	c.mu.Unlock()

	c.log.Info("match state restored",
		zap.String("match_id", cur.MatchID),
		zap.Uint16("home", cur.HomeScore),
		zap.Uint16("away", cur.AwayScore))
	c.publish(context.Background(), Event{Kind: EventRestored})
}

// Close 停止模拟时钟任务
func (c *Controller) Close() {
	c.mu.Lock()
	done := c.stopClockLocked()
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// ---- 查询 ----

// GetState 返回状态副本；非模拟模式下 connected 取链路实时状态
func (c *Controller) GetState() MatchState {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()
	if !c.simulation {
		st.Connected = c.device.IsConnected()
	}
	return st
}

func (c *Controller) GetHomeScore() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.HomeScore
}

func (c *Controller) GetAwayScore() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.AwayScore
}

// IsConnected 链路是否在线；模拟模式返回记录的连接标志
func (c *Controller) IsConnected() bool {
	if c.simulation {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.state.Connected
	}
	return c.device.IsConnected()
}

// EnsureConnection 必要时重连并同步连接标志
func (c *Controller) EnsureConnection(ctx context.Context) bool {
	if c.simulation {
		return c.IsConnected()
	}
	err := c.device.EnsureConnection(ctx)
	if err != nil {
		c.log.Warn("ensure connection failed", zap.Error(err))
	}
	connected := err == nil && c.device.IsConnected()
	c.setConnected(connected)
	return connected
}

// DisplayDirty 屏幕内容是否落后于内存状态
func (c *Controller) DisplayDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.DisplayDirty
}

// SetConnected 由链路管理器回调，同步连接标志
func (c *Controller) SetConnected(connected bool) {
	c.setConnected(connected)
}

// ---- 队名与比分 ----

func (c *Controller) SetTeams(ctx context.Context, home, away string) error {
	return c.apply(ctx, Event{Kind: EventTeamsSet}, func(s *MatchState) {
		s.HomeTeam, s.AwayTeam = home, away
	})
}

func (c *Controller) SetScores(ctx context.Context, home, away uint16) error {
	return c.apply(ctx, Event{Kind: EventScoresSet}, func(s *MatchState) {
		s.HomeScore, s.AwayScore = home, away
	})
}

func (c *Controller) IncrementHomeScore(ctx context.Context) error {
	return c.apply(ctx, Event{Kind: EventScoreIncrement, Team: Home, Delta: 1}, func(s *MatchState) {
		s.adjust(Home, 1)
	})
}

func (c *Controller) IncrementAwayScore(ctx context.Context) error {
	return c.apply(ctx, Event{Kind: EventScoreIncrement, Team: Away, Delta: 1}, func(s *MatchState) {
		s.adjust(Away, 1)
	})
}

func (c *Controller) ResetScores(ctx context.Context) error {
	return c.apply(ctx, Event{Kind: EventScoresReset}, func(s *MatchState) {
		s.HomeScore, s.AwayScore = 0, 0
	})
}

// ---- 计时 ----

// SetTimer 设置计时器（超过 99:59 按 99:59 处理），非模拟模式同步控制卡时钟
func (c *Controller) SetTimer(ctx context.Context, minutes, seconds uint8) error {
	return c.applyDevice(ctx, Event{Kind: EventTimerSet}, func(s *MatchState) cpower.Command {
		s.setTimer(minutes, seconds)
		return cpower.TimeControl{Time: cpower.TimeSet{Minutes: s.TimerMinutes, Seconds: s.TimerSeconds}}
	})
}

// StartTimer 启动计时；模拟模式下启动（至多一个）本地时钟任务
func (c *Controller) StartTimer(ctx context.Context) error {
	return c.applyDevice(ctx, Event{Kind: EventTimerStart}, func(s *MatchState) cpower.Command {
		s.TimerRunning = true
		if c.simulation {
			c.startClockLocked()
		}
		return cpower.TimeControl{Time: cpower.TimeStartStop{Start: true}}
	})
}

// StopTimer 停止计时并取消本地时钟任务
func (c *Controller) StopTimer(ctx context.Context) error {
	return c.applyDevice(ctx, Event{Kind: EventTimerStop}, func(s *MatchState) cpower.Command {
		s.TimerRunning = false
		c.stopClockLocked()
		return cpower.TimeControl{Time: cpower.TimeStartStop{Start: false}}
	})
}

// ResetTimer 归零并停止
func (c *Controller) ResetTimer(ctx context.Context) error {
	if err := c.SetTimer(ctx, 0, 0); err != nil {
		return err
	}
	return c.StopTimer(ctx)
}

// ---- 内部 ----

// apply 在锁内修改状态，释放锁后刷新屏幕并通知订阅者
func (c *Controller) apply(ctx context.Context, ev Event, fn func(s *MatchState)) error {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()

	err := c.refresh(ctx)
	c.finish(ctx, ev, err)
	return err
}

// applyDevice 同 apply，但刷新前先向控制卡发送 fn 返回的命令；模拟模式跳过命令
func (c *Controller) applyDevice(ctx context.Context, ev Event, fn func(s *MatchState) cpower.Command) error {
	c.mu.Lock()
	cmd := fn(&c.state)
	c.mu.Unlock()

	if !c.simulation {
		if _, err := c.device.SendCommand(ctx, cmd); err != nil {
			c.setDirty(true)
			err = fmt.Errorf("%s: %w", ev.Kind, err)
			c.finish(ctx, ev, err)
			return err
		}
	}

	err := c.refresh(ctx)
	c.finish(ctx, ev, err)
	return err
}

func (c *Controller) finish(ctx context.Context, ev Event, err error) {
	if c.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		c.metrics.OperationsTotal.WithLabelValues(string(ev.Kind), result).Inc()
	}
	if err != nil {
		c.log.Warn("display push failed, state kept", zap.String("op", string(ev.Kind)), zap.Error(err))
	}
	c.publish(ctx, ev)
}

// refresh 整屏刷新：队名白色、比分绿色、计时运行中红色否则白色
func (c *Controller) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.Lock()
	snap := c.state
	c.mu.Unlock()

	if c.simulation {
		running := "stopped"
		if snap.TimerRunning {
			running = "running"
		}
		c.log.Info("simulation display update",
			zap.String("home", snap.HomeTeam),
			zap.Uint16("home_score", snap.HomeScore),
			zap.String("away", snap.AwayTeam),
			zap.Uint16("away_score", snap.AwayScore),
			zap.String("timer", snap.TimerText()),
			zap.String("clock", running))
		c.setDirty(false)
		return nil
	}

	for _, cmd := range displayUpdates(snap) {
		if _, err := c.device.SendCommand(ctx, cmd); err != nil {
			c.setDirty(true)
			return fmt.Errorf("refresh display: %w", err)
		}
	}
	c.setDirty(false)
	return nil
}

func displayUpdates(s MatchState) []cpower.Command {
	timerColor := cpower.White
	if s.TimerRunning {
		timerColor = cpower.Red
	}
	text := func(window uint8, t string, color cpower.Color) cpower.Command {
		return cpower.DisplayMessage{Display: cpower.SendPureText{WindowID: window, Text: t, Color: color}}
	}
	return []cpower.Command{
		text(cpower.WindowHomeName, s.HomeTeam, cpower.White),
		text(cpower.WindowAwayName, s.AwayTeam, cpower.White),
		text(cpower.WindowHomeScore, strconv.Itoa(int(s.HomeScore)), cpower.Green),
		text(cpower.WindowAwayScore, strconv.Itoa(int(s.AwayScore)), cpower.Green),
		text(cpower.WindowTimer, s.TimerText(), timerColor),
	}
}

func (c *Controller) setDirty(dirty bool) {
	c.mu.Lock()
	c.state.DisplayDirty = dirty
	c.mu.Unlock()
	if c.metrics != nil {
		v := 0.0
		if dirty {
			v = 1
		}
		c.metrics.DisplayDirty.Set(v)
	}
}

func (c *Controller) setConnected(connected bool) {
	c.mu.Lock()
	changed := c.state.Connected != connected
	c.state.Connected = connected
	c.mu.Unlock()
	if changed {
		c.publish(context.Background(), Event{Kind: EventLink})
	}
}

// publish 通知订阅者并异步写比赛记录；失败只记日志
func (c *Controller) publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = c.clock.Now()
	}
	st := c.GetState()

	c.obsMu.RLock()
	observers := c.observers
	c.obsMu.RUnlock()
	for _, o := range observers {
		o.OnStateChange(ctx, ev, st)
	}

	if c.journal != nil && ev.Kind.Journaled() {
		go func() {
			jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := c.journal.Record(jctx, ev, st); err != nil {
				c.log.Warn("journal record failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
			}
		}()
	}
}
