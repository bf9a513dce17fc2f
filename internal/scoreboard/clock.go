package scoreboard

import (
	"context"
	"time"
)

// startClockLocked 启动模拟时钟任务；已有任务时不重复启动。调用方持有 c.mu
func (c *Controller) startClockLocked() {
	if c.clockCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.clockCancel, c.clockDone = cancel, done
	go c.runClock(ctx, done)
}

// stopClockLocked 取消时钟任务，返回其结束信号（无任务时为 nil）。调用方持有 c.mu
func (c *Controller) stopClockLocked() chan struct{} {
	if c.clockCancel == nil {
		return nil
	}
	c.clockCancel()
	done := c.clockDone
	c.clockCancel, c.clockDone = nil, nil
	return done
}

func (c *Controller) runClock(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}

		c.mu.Lock()
		// 取消发生在持锁期间，这里再检查一次避免停止后多走一秒
		if ctx.Err() != nil {
			c.mu.Unlock()
			return
		}
		if !c.state.TimerRunning {
			if c.clockDone == done {
				c.clockCancel, c.clockDone = nil, nil
			}
			c.mu.Unlock()
			return
		}
		c.state.tick()
		c.mu.Unlock()

		c.publish(ctx, Event{Kind: EventClockTick})
	}
}
