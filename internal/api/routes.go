package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/api/middleware"
	"github.com/taoyao-code/scoreboard-server/internal/config"
)

// OpenAPIDocURL Swagger UI 使用的接口描述文件
const OpenAPIDocURL = "/static/openapi.json"

// LiveFeed websocket 实时推送
type LiveFeed interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Deps 路由依赖；Journal、LiveFeed 可为 nil
type Deps struct {
	Scoreboard Scoreboard
	Journal    EventLister
	LiveFeed   LiveFeed
	Config     *config.Config
	Logger     *zap.Logger
}

// RegisterRoutes 注册比分控制、配置、比赛记录与实时推送路由
func RegisterRoutes(r *gin.Engine, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sb := NewScoreboardHandler(deps.Scoreboard, logger)
	cfgH := NewConfigHandler(deps.Config, logger)
	evH := NewEventsHandler(deps.Journal, func() string { return deps.Scoreboard.GetState().MatchID }, logger)

	api := r.Group("/api")
	authCfg := deps.Config.API.Auth
	if authCfg.Enabled {
		api.Use(middleware.APIKeyAuth(authCfg, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(authCfg.APIKeys)))
	} else {
		logger.Warn("api authentication disabled")
	}

	api.GET("/status", sb.GetStatus)
	api.POST("/teams", sb.SetTeams)
	api.POST("/scores", sb.SetScores)
	api.POST("/scores/home/increment", sb.IncrementHome)
	api.POST("/scores/away/increment", sb.IncrementAway)
	api.POST("/scores/reset", sb.ResetScores)

	api.POST("/timer", sb.SetTimer)
	api.POST("/timer/start", sb.StartTimer)
	api.POST("/timer/stop", sb.StopTimer)
	api.POST("/timer/reset", sb.ResetTimer)

	rugby := api.Group("/rugby")
	rugby.POST("/try", sb.teamOp("add_try", "Try added", deps.Scoreboard.AddTry))
	rugby.DELETE("/try", sb.teamOp("remove_try", "Try removed", deps.Scoreboard.RemoveTry))
	rugby.POST("/conversion", sb.teamOp("add_conversion", "Conversion added", deps.Scoreboard.AddConversion))
	rugby.DELETE("/conversion", sb.teamOp("remove_conversion", "Conversion removed", deps.Scoreboard.RemoveConversion))
	rugby.POST("/penalty", sb.teamOp("add_penalty", "Penalty added", deps.Scoreboard.AddPenalty))
	rugby.DELETE("/penalty", sb.teamOp("remove_penalty", "Penalty removed", deps.Scoreboard.RemovePenalty))
	rugby.POST("/penalty-try", sb.teamOp("add_penalty_try", "Penalty try added", deps.Scoreboard.AddPenaltyTry))
	rugby.POST("/start-first-half", sb.StartFirstHalf)
	rugby.POST("/start-second-half", sb.StartSecondHalf)
	rugby.POST("/end-period", sb.EndPeriod)

	api.GET("/config", cfgH.GetConfig)
	api.POST("/config", cfgH.UpdateConfig)
	api.GET("/events", evH.ListEvents)

	// 浏览器 websocket 无法携带自定义 Header，不走 API Key 认证
	if deps.LiveFeed != nil {
		r.GET("/ws", gin.WrapF(deps.LiveFeed.ServeWS))
	}

	// 接口文档：Swagger UI 加载静态目录下的 openapi.json
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(OpenAPIDocURL)))

	logger.Info("scoreboard routes registered")
}
