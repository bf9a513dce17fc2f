package health

import (
	"context"
	"time"
)

// Status 健康状态
type Status string

const (
	StatusHealthy   Status = "healthy"   // 健康
	StatusDegraded  Status = "degraded"  // 降级（屏幕离线等，接口仍可服务）
	StatusUnhealthy Status = "unhealthy" // 不健康（无法服务）
)

// CheckResult 健康检查结果
type CheckResult struct {
	Status  Status                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	Latency time.Duration          `json:"latency"`
}

// Checker 健康检查器接口
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// timed 统一补齐耗时
func timed(start time.Time, r CheckResult) CheckResult {
	r.Latency = time.Since(start)
	return r
}

// poolUsageLimit 连接池占用超过该比例时降级
const poolUsageLimit = 0.9

// poolResult 按连接池占用给出结果
func poolResult(inUse, capacity int64) CheckResult {
	r := CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: map[string]interface{}{"in_use": inUse, "capacity": capacity},
	}
	if capacity > 0 && float64(inUse)/float64(capacity) > poolUsageLimit {
		r.Status = StatusDegraded
		r.Message = "connection pool near limit"
	}
	return r
}
