package health

import "sync/atomic"

// Readiness 启动就绪状态（控制器初始化完成、HTTP 已监听）
type Readiness struct {
	controllerReady atomic.Bool
	httpReady       atomic.Bool
}

func New() *Readiness { return &Readiness{} }

func (r *Readiness) SetControllerReady(v bool) { r.controllerReady.Store(v) }
func (r *Readiness) SetHTTPReady(v bool)       { r.httpReady.Store(v) }

// Ready 总体就绪：各子系统均为 true
func (r *Readiness) Ready() bool {
	return r.controllerReady.Load() && r.httpReady.Load()
}
