package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/scoreboard-server/internal/health"
	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
	"github.com/taoyao-code/scoreboard-server/internal/transport"
)

// NewHealthAggregator 创建健康检查聚合器；初始只检查控制卡链路
func NewHealthAggregator(link *transport.Client, ctrl *scoreboard.Controller) *health.Aggregator {
	var dl health.DeviceLink
	if link != nil {
		dl = link
	}
	return health.NewAggregator(health.NewDeviceChecker(dl, ctrl))
}

// AddDatabaseChecker 添加比赛记录库检查器
func AddDatabaseChecker(aggregator *health.Aggregator, dbpool *pgxpool.Pool) {
	if dbpool != nil {
		aggregator.AddChecker(health.NewDatabaseChecker(dbpool))
	}
}

// RegisterHealthRoutes 注册健康检查HTTP路由
func RegisterHealthRoutes(r *gin.Engine, aggregator *health.Aggregator) {
	health.RegisterHTTPRoutes(r, aggregator)
}
