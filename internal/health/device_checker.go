package health

import (
	"context"
	"time"
)

// DeviceLink 控制卡链路的只读视图
type DeviceLink interface {
	IsConnected() bool
	Addr() string
}

// DisplayState 屏幕同步状态
type DisplayState interface {
	Simulation() bool
	DisplayDirty() bool
}

// DeviceChecker 控制卡链路检查：离线或屏幕内容落后时降级（接口仍可改比分）
type DeviceChecker struct {
	link    DeviceLink
	display DisplayState
}

// NewDeviceChecker 创建检查器；模拟模式下 link 可为 nil
func NewDeviceChecker(link DeviceLink, display DisplayState) *DeviceChecker {
	return &DeviceChecker{link: link, display: display}
}

func (c *DeviceChecker) Name() string {
	return "device"
}

func (c *DeviceChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	if c.display.Simulation() {
		return timed(start, CheckResult{Status: StatusHealthy, Message: "simulation mode"})
	}

	details := map[string]interface{}{
		"address":       c.link.Addr(),
		"connected":     c.link.IsConnected(),
		"display_dirty": c.display.DisplayDirty(),
	}
	switch {
	case !c.link.IsConnected():
		return timed(start, CheckResult{Status: StatusDegraded, Message: "control card offline", Details: details})
	case c.display.DisplayDirty():
		return timed(start, CheckResult{Status: StatusDegraded, Message: "display out of sync", Details: details})
	default:
		return timed(start, CheckResult{Status: StatusHealthy, Message: "ok", Details: details})
	}
}
