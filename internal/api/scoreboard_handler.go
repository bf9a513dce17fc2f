package api

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
)

// Scoreboard 比分控制器对外操作
type Scoreboard interface {
	GetState() scoreboard.MatchState
	SetTeams(ctx context.Context, home, away string) error
	SetScores(ctx context.Context, home, away uint16) error
	IncrementHomeScore(ctx context.Context) error
	IncrementAwayScore(ctx context.Context) error
	ResetScores(ctx context.Context) error
	SetTimer(ctx context.Context, minutes, seconds uint8) error
	StartTimer(ctx context.Context) error
	StopTimer(ctx context.Context) error
	ResetTimer(ctx context.Context) error
	AddTry(ctx context.Context, team string) error
	RemoveTry(ctx context.Context, team string) error
	AddConversion(ctx context.Context, team string) error
	RemoveConversion(ctx context.Context, team string) error
	AddPenalty(ctx context.Context, team string) error
	RemovePenalty(ctx context.Context, team string) error
	AddPenaltyTry(ctx context.Context, team string) error
	StartFirstHalf(ctx context.Context) error
	StartSecondHalf(ctx context.Context) error
	EndPeriod(ctx context.Context) error
}

// TeamUpdate POST /api/teams
type TeamUpdate struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// ScoreUpdate POST /api/scores
type ScoreUpdate struct {
	HomeScore uint16 `json:"home_score"`
	AwayScore uint16 `json:"away_score"`
}

// TimerUpdate POST /api/timer
type TimerUpdate struct {
	Minutes uint8 `json:"minutes"`
	Seconds uint8 `json:"seconds"`
}

// TeamAction 橄榄球计分操作
type TeamAction struct {
	Team string `json:"team" binding:"required"`
}

// ScoreboardHandler 比分控制 API
type ScoreboardHandler struct {
	ctrl   Scoreboard
	logger *zap.Logger
}

func NewScoreboardHandler(ctrl Scoreboard, logger *zap.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{ctrl: ctrl, logger: logger}
}

// run 执行无参操作并按信封返回
func (h *ScoreboardHandler) run(c *gin.Context, op, done string, fn func(ctx context.Context) error) {
	if err := fn(c.Request.Context()); err != nil {
		h.logger.Error("scoreboard operation failed", zap.String("op", op), zap.Error(err))
		failErr(c, err)
		return
	}
	h.logger.Info(done)
	ok(c, done)
}

// teamOp 橄榄球计分类操作：{team} -> fn
func (h *ScoreboardHandler) teamOp(op, verb string, fn func(ctx context.Context, team string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TeamAction
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		done := fmt.Sprintf("%s for %s", verb, req.Team)
		h.run(c, op, done, func(ctx context.Context) error { return fn(ctx, req.Team) })
	}
}

// GetStatus 当前比赛状态
// @Summary 查询比赛状态
// @Tags 比分
// @Produce json
// @Success 200 {object} Response
// @Router /api/status [get]
func (h *ScoreboardHandler) GetStatus(c *gin.Context) {
	ok(c, h.ctrl.GetState())
}

// SetTeams 设置队名
// @Summary 设置主客队名
// @Tags 比分
// @Accept json
// @Produce json
// @Param body body TeamUpdate true "队名"
// @Router /api/teams [post]
func (h *ScoreboardHandler) SetTeams(c *gin.Context) {
	var req TeamUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, "set_teams", "Teams updated", func(ctx context.Context) error {
		return h.ctrl.SetTeams(ctx, req.HomeTeam, req.AwayTeam)
	})
}

// SetScores 直接设置比分
// @Summary 设置比分
// @Tags 比分
// @Accept json
// @Param body body ScoreUpdate true "比分"
// @Router /api/scores [post]
func (h *ScoreboardHandler) SetScores(c *gin.Context) {
	var req ScoreUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, "set_scores", "Scores updated", func(ctx context.Context) error {
		return h.ctrl.SetScores(ctx, req.HomeScore, req.AwayScore)
	})
}

func (h *ScoreboardHandler) IncrementHome(c *gin.Context) {
	h.run(c, "increment_home", "Home score incremented", h.ctrl.IncrementHomeScore)
}

func (h *ScoreboardHandler) IncrementAway(c *gin.Context) {
	h.run(c, "increment_away", "Away score incremented", h.ctrl.IncrementAwayScore)
}

func (h *ScoreboardHandler) ResetScores(c *gin.Context) {
	h.run(c, "reset_scores", "Scores reset", h.ctrl.ResetScores)
}

// SetTimer 设置计时器
// @Summary 设置计时器（分钟:秒）
// @Tags 计时
// @Accept json
// @Param body body TimerUpdate true "时间"
// @Router /api/timer [post]
func (h *ScoreboardHandler) SetTimer(c *gin.Context) {
	var req TimerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	done := fmt.Sprintf("Timer set to %d:%02d", req.Minutes, req.Seconds)
	h.run(c, "set_timer", done, func(ctx context.Context) error {
		return h.ctrl.SetTimer(ctx, req.Minutes, req.Seconds)
	})
}

func (h *ScoreboardHandler) StartTimer(c *gin.Context) {
	h.run(c, "start_timer", "Timer started", h.ctrl.StartTimer)
}

func (h *ScoreboardHandler) StopTimer(c *gin.Context) {
	h.run(c, "stop_timer", "Timer stopped", h.ctrl.StopTimer)
}

func (h *ScoreboardHandler) ResetTimer(c *gin.Context) {
	h.run(c, "reset_timer", "Timer reset", h.ctrl.ResetTimer)
}

func (h *ScoreboardHandler) StartFirstHalf(c *gin.Context) {
	h.run(c, "start_first_half", "First half started", h.ctrl.StartFirstHalf)
}

func (h *ScoreboardHandler) StartSecondHalf(c *gin.Context) {
	h.run(c, "start_second_half", "Second half started", h.ctrl.StartSecondHalf)
}

func (h *ScoreboardHandler) EndPeriod(c *gin.Context) {
	h.run(c, "end_period", "Period ended", h.ctrl.EndPeriod)
}
