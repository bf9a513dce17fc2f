package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/events"
	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
)

// NewEventPublisherIfEnabled 启用时连接 NATS 并订阅控制器；连接失败只告警
func NewEventPublisherIfEnabled(cfg cfgpkg.EventsConfig, serverID string, ctrl *scoreboard.Controller, logger *zap.Logger) *events.Publisher {
	if !cfg.Enabled {
		return nil
	}
	pub, err := events.Connect(cfg, serverID, logger.Named("events"))
	if err != nil {
		logger.Warn("event bus unavailable, continuing without it", zap.Error(err))
		return nil
	}
	ctrl.Subscribe(pub)
	logger.Info("event bus connected", zap.String("url", cfg.NATSURL), zap.String("subject", cfg.Subject))
	return pub
}
