package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/metrics"
	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
	"github.com/taoyao-code/scoreboard-server/internal/session"
	"github.com/taoyao-code/scoreboard-server/internal/transport"
)

// NewDeviceClient 构造控制卡客户端（不立即连接）
func NewDeviceClient(cfg cfgpkg.ScoreboardConfig, appm *metrics.AppMetrics, logger *zap.Logger) *transport.Client {
	return transport.NewClient(cfg.Address, transport.Options{
		CardID:         cfg.CardID,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		RatePerSec:     cfg.SendRatePerSec,
		Burst:          cfg.SendBurst,
		Logger:         logger.Named("transport"),
		Metrics:        appm,
	})
}

// NewLinkManager 构造保活/重连管理器：重连成功后重建窗口并全量刷新
func NewLinkManager(cfg cfgpkg.ScoreboardConfig, client *transport.Client, ctrl *scoreboard.Controller, appm *metrics.AppMetrics, logger *zap.Logger) *session.Manager {
	logger.Info("link manager configured",
		zap.String("address", cfg.Address),
		zap.Duration("keepalive", cfg.KeepAliveInterval),
		zap.Duration("backoff_initial", cfg.ReconnectInitial),
		zap.Duration("backoff_max", cfg.ReconnectMax))

	return session.NewManager(client, session.Options{
		KeepAliveInterval: cfg.KeepAliveInterval,
		InitialBackoff:    cfg.ReconnectInitial,
		MaxBackoff:        cfg.ReconnectMax,
		Logger:            logger.Named("session"),
		Metrics:           appm,
		OnReconnect:       ctrl.Initialize,
		OnLinkChange:      ctrl.SetConnected,
	})
}
