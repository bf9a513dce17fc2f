package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient 快照缓存连接
type RedisClient interface {
	HealthCheck(ctx context.Context) error
	Stats() *redis.PoolStats
}

// RedisChecker 快照缓存不可用只降级，比分控制不受影响
type RedisChecker struct {
	client RedisClient
}

func NewRedisChecker(client RedisClient) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if err := c.client.HealthCheck(ctx); err != nil {
		return timed(start, CheckResult{Status: StatusDegraded, Message: "snapshot cache unreachable: " + err.Error()})
	}
	st := c.client.Stats()
	r := poolResult(int64(st.TotalConns)-int64(st.IdleConns), int64(st.TotalConns))
	r.Details["timeouts"] = st.Timeouts
	return timed(start, r)
}
