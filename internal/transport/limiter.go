package transport

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// SendLimiter 下行帧令牌桶限流；控制卡处理能力有限，连续刷屏时平滑发送
type SendLimiter struct {
	limiter     *rate.Limiter
	ratePerSec  int
	burst       int
	sentCount   atomic.Int64
	abortedWait atomic.Int64
}

// NewSendLimiter 创建限流器
// ratePerSec: 每秒帧数，<=0 表示不限速
// burst: 突发容量，<=0 时取 ratePerSec
func NewSendLimiter(ratePerSec int, burst int) *SendLimiter {
	if burst <= 0 {
		burst = ratePerSec
	}
	limit := rate.Limit(ratePerSec)
	if ratePerSec <= 0 {
		limit = rate.Inf
		burst = 1
	}
	return &SendLimiter{
		limiter:    rate.NewLimiter(limit, burst),
		ratePerSec: ratePerSec,
		burst:      burst,
	}
}

// Allow 非阻塞检查
func (l *SendLimiter) Allow() bool {
	if l.limiter.Allow() {
		l.sentCount.Add(1)
		return true
	}
	return false
}

// Wait 阻塞直到拿到令牌或 ctx 结束
func (l *SendLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		l.abortedWait.Add(1)
		return err
	}
	l.sentCount.Add(1)
	return nil
}

// Stats 获取统计信息
func (l *SendLimiter) Stats() SendLimiterStats {
	return SendLimiterStats{
		RatePerSecond: l.ratePerSec,
		Burst:         l.burst,
		SentTotal:     l.sentCount.Load(),
		AbortedTotal:  l.abortedWait.Load(),
	}
}

// SendLimiterStats 限流统计
type SendLimiterStats struct {
	RatePerSecond int   `json:"rate_per_second"`
	Burst         int   `json:"burst"`
	SentTotal     int64 `json:"sent_total"`
	AbortedTotal  int64 `json:"aborted_total"`
}
