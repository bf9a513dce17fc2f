package scoreboard

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockController(t *testing.T) (*Controller, *clockwork.FakeClock, chan MatchState) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	rugby := defaultRugby
	rugby.FirstHalfMinutes = 1
	c, err := New(nil, Options{Simulation: true, Rugby: rugby, Clock: clock})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	ticks := make(chan MatchState, 256)
	c.Subscribe(ObserverFunc(func(_ context.Context, ev Event, st MatchState) {
		if ev.Kind == EventClockTick {
			ticks <- st
		}
	}))
	return c, clock, ticks
}

func advance(t *testing.T, ctx context.Context, clock *clockwork.FakeClock, ticks chan MatchState, n int) MatchState {
	t.Helper()
	var st MatchState
	for i := 0; i < n; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(time.Second)
		select {
		case st = <-ticks:
		case <-ctx.Done():
			t.Fatalf("tick %d not observed", i+1)
		}
	}
	return st
}

func TestSimulatedClock_CountsSeconds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, clock, ticks := newClockController(t)

	require.NoError(t, c.StartTimer(ctx))
	st := advance(t, ctx, clock, ticks, 65)
	assert.Equal(t, 65, st.ElapsedSeconds())
	assert.Equal(t, "01:05", st.TimerText())
	assert.Equal(t, 65, c.GetState().ElapsedSeconds())
}

func TestSimulatedClock_StopHaltsTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, clock, ticks := newClockController(t)

	require.NoError(t, c.StartTimer(ctx))
	advance(t, ctx, clock, ticks, 3)

	c.mu.Lock()
	done := c.clockDone
	c.mu.Unlock()
	require.NotNil(t, done)

	require.NoError(t, c.StopTimer(ctx))
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("clock task still running")
	}

	clock.Advance(5 * time.Second)
	assert.Equal(t, 3, c.GetState().ElapsedSeconds())
	assert.Empty(t, ticks)
}

func TestSimulatedClock_SingleTask(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, clock, ticks := newClockController(t)

	require.NoError(t, c.StartTimer(ctx))
	c.mu.Lock()
	first := c.clockDone
	c.mu.Unlock()

	require.NoError(t, c.StartTimer(ctx))
	c.mu.Lock()
	assert.Equal(t, first, c.clockDone)
	c.mu.Unlock()

	st := advance(t, ctx, clock, ticks, 2)
	assert.Equal(t, 2, st.ElapsedSeconds(), "one second per tick")
}

func TestSimulatedClock_ClampsAt9959(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, clock, ticks := newClockController(t)

	require.NoError(t, c.SetTimer(ctx, 99, 58))
	require.NoError(t, c.StartTimer(ctx))
	st := advance(t, ctx, clock, ticks, 3)
	assert.Equal(t, "99:59", st.TimerText())
}

func TestSimulatedClock_PeriodCountdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, clock, ticks := newClockController(t)

	require.NoError(t, c.StartFirstHalf(ctx))
	assert.Equal(t, uint16(60), c.GetState().PeriodTimeRemaining)

	st := advance(t, ctx, clock, ticks, 3)
	assert.Equal(t, uint16(57), st.PeriodTimeRemaining)
	assert.Equal(t, "00:03", st.TimerText())

	// 倒计时到 0 后不结束阶段，计时继续
	st = advance(t, ctx, clock, ticks, 60)
	assert.Zero(t, st.PeriodTimeRemaining)
	assert.Equal(t, PeriodFirstHalf, st.CurrentPeriod)
	assert.Equal(t, "01:03", st.TimerText())
}

func TestMatchState_Tick(t *testing.T) {
	s := MatchState{TimerMinutes: 0, TimerSeconds: 59}
	s.tick()
	assert.Equal(t, "01:00", s.TimerText())
	assert.Zero(t, s.PeriodTimeRemaining)

	s = MatchState{CurrentPeriod: PeriodSecondHalf, PeriodTimeRemaining: 1}
	s.tick()
	s.tick()
	assert.Zero(t, s.PeriodTimeRemaining)
}
