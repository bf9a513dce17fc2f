package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 比分屏业务指标
type AppMetrics struct {
	FramesSent       *prometheus.CounterVec // labels: kind, result=ok|error|unsupported
	ResponseTimeouts prometheus.Counter     // 读应答超时/无效应答
	BytesWritten     prometheus.Counter
	ThrottleWait     prometheus.Histogram // 限流等待秒数

	LinkUp         prometheus.Gauge       // 1=控制卡在线
	KeepAliveTotal *prometheus.CounterVec // labels: result=ok|fail
	ReconnectTotal *prometheus.CounterVec // labels: result=ok|fail

	OperationsTotal *prometheus.CounterVec // labels: op, result=ok|error
	DisplayDirty    prometheus.Gauge       // 1=屏幕内容落后于内存状态
	LiveClients     prometheus.Gauge       // websocket 订阅数
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_frames_sent_total",
			Help: "Frames sent to the control card by command kind.",
		}, []string{"kind", "result"}),
		ResponseTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_response_timeouts_total",
			Help: "Requests that got no valid response from the card.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_bytes_written_total",
			Help: "Total bytes written to the control card.",
		}),
		ThrottleWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoreboard_send_throttle_seconds",
			Help:    "Time spent waiting for the outbound rate limiter.",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		LinkUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scoreboard_link_up",
			Help: "Whether the control card link is up.",
		}),
		KeepAliveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_keepalive_total",
			Help: "Keep-alive probes by result.",
		}, []string{"result"}),
		ReconnectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_reconnect_total",
			Help: "Reconnect attempts by result.",
		}, []string{"result"}),
		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_operations_total",
			Help: "Match controller operations by name and result.",
		}, []string{"op", "result"}),
		DisplayDirty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scoreboard_display_dirty",
			Help: "Whether the display is behind the in-memory match state.",
		}),
		LiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scoreboard_live_clients",
			Help: "Connected websocket live feed clients.",
		}),
	}
	reg.MustRegister(
		m.FramesSent, m.ResponseTimeouts, m.BytesWritten, m.ThrottleWait,
		m.LinkUp, m.KeepAliveTotal, m.ReconnectTotal,
		m.OperationsTotal, m.DisplayDirty, m.LiveClients,
	)
	return m
}
