package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLink struct {
	mu           sync.Mutex
	keepAliveOK  bool
	failConnects int
	connects     int
	connected    bool
	probes       chan struct{}
}

func newFakeLink(keepAliveOK bool, failConnects int) *fakeLink {
	return &fakeLink{keepAliveOK: keepAliveOK, failConnects: failConnects, connected: true, probes: make(chan struct{}, 8)}
}

func (l *fakeLink) Connect(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connects++
	if l.connects <= l.failConnects {
		return errors.New("connection refused")
	}
	return nil
}

// SendKeepAlive 与 transport.Client 一致：离线时自动拨号
func (l *fakeLink) SendKeepAlive(context.Context) bool {
	l.probes <- struct{}{}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = l.keepAliveOK
	return l.keepAliveOK
}

func (l *fakeLink) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *fakeLink) connectCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connects
}

func TestNextBackoff(t *testing.T) {
	want := []time.Duration{1, 2, 4, 8, 16, 32, 60, 60}
	for i, w := range want {
		assert.Equal(t, w*time.Second, NextBackoff(i+1), "attempt %d", i+1)
	}
	assert.Equal(t, time.Second, NextBackoff(0))
	assert.Equal(t, 60*time.Second, NextBackoff(1000))
}

func TestManager_ProbeOK(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	link := newFakeLink(true, 0)
	m := NewManager(link, Options{Clock: clock})

	done := make(chan struct{})
	go func() { m.Run(ctx); close(done) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(DefaultKeepAliveInterval)
	<-link.probes

	cancel()
	<-done
	assert.Equal(t, 0, link.connectCount())
}

func TestManager_ReconnectWithBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	link := newFakeLink(false, 2)
	reconnected := make(chan struct{}, 1)
	var states []bool
	var mu sync.Mutex
	m := NewManager(link, Options{
		Clock: clock,
		OnReconnect: func(context.Context) error {
			reconnected <- struct{}{}
			return nil
		},
		OnLinkChange: func(up bool) {
			mu.Lock()
			states = append(states, up)
			mu.Unlock()
		},
	})

	go m.Run(ctx)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(DefaultKeepAliveInterval)
	<-link.probes

	// 1s, 2s 两次失败，4s 后成功；等待期间 ticker 也是一个等待者
	for _, d := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		require.NoError(t, clock.BlockUntilContext(ctx, 2))
		clock.Advance(d)
	}

	select {
	case <-reconnected:
	case <-ctx.Done():
		t.Fatal("reconnect hook not called")
	}
	assert.Equal(t, 3, link.connectCount())
	mu.Lock()
	assert.Equal(t, []bool{false, true}, states)
	mu.Unlock()
}

func TestManager_StopsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewFakeClock()
	link := newFakeLink(false, 100)
	m := NewManager(link, Options{Clock: clock})

	done := make(chan struct{})
	go func() { m.Run(ctx); close(done) }()

	bctx, bcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer bcancel()
	require.NoError(t, clock.BlockUntilContext(bctx, 1))
	clock.Advance(DefaultKeepAliveInterval)
	<-link.probes
	require.NoError(t, clock.BlockUntilContext(bctx, 2))

	cancel()
	select {
	case <-done:
	case <-bctx.Done():
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, link.connectCount())
}

func TestManager_KeepAliveRedialCountsAsReconnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	link := newFakeLink(true, 0)
	link.connected = false // 启动时控制卡离线，Initialize 失败

	var (
		mu     sync.Mutex
		states []bool
		hooks  int
	)
	m := NewManager(link, Options{
		Clock: clock,
		OnReconnect: func(context.Context) error {
			mu.Lock()
			hooks++
			mu.Unlock()
			return nil
		},
		OnLinkChange: func(up bool) {
			mu.Lock()
			states = append(states, up)
			mu.Unlock()
		},
	})

	done := make(chan struct{})
	go func() { m.Run(ctx); close(done) }()

	// 第一次保活拨号成功：重建窗口；第二次链路已在线，不再触发
	for i := 0; i < 2; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(DefaultKeepAliveInterval)
		<-link.probes
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hooks)
	assert.Equal(t, []bool{true}, states)
	assert.Equal(t, 0, link.connectCount())
}
