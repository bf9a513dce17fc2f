package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/health"
	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
	redisstorage "github.com/taoyao-code/scoreboard-server/internal/storage/redis"
)

// NewRedisClient 创建Redis客户端；未启用返回 nil
func NewRedisClient(ctx context.Context, cfg cfgpkg.RedisConfig, logger *zap.Logger) (*redisstorage.Client, error) {
	if !cfg.Enabled {
		logger.Info("redis is disabled, skipping initialization")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := redisstorage.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("redis client initialized",
		zap.String("addr", cfg.Addr),
		zap.Int("pool_size", cfg.PoolSize))

	return client, nil
}

// RestoreAndPersist 启动时从快照恢复比分，并订阅后续变化写回快照；写协程随 ctx 退出
func RestoreAndPersist(ctx context.Context, client *redisstorage.Client, cfg cfgpkg.RedisConfig, ctrl *scoreboard.Controller, logger *zap.Logger) {
	store := redisstorage.NewStateStore(client.Client, cfg.SnapshotKey, cfg.SnapshotTTL, logger)

	st, ok, err := store.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("load match snapshot failed, starting fresh", zap.Error(err))
	case ok:
		ctrl.Restore(st)
	default:
		logger.Info("no match snapshot found")
	}

	go store.Run(ctx)
	ctrl.Subscribe(store)
}

// AddRedisChecker 添加Redis检查器到聚合器
func AddRedisChecker(aggregator *health.Aggregator, redisClient *redisstorage.Client) {
	if redisClient != nil {
		aggregator.AddChecker(health.NewRedisChecker(redisClient))
	}
}
