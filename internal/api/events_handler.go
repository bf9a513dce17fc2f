package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/storage/models"
)

const maxEventsLimit = 500

// EventLister 比赛记录查询
type EventLister interface {
	ListEvents(ctx context.Context, matchID string, limit int) ([]models.MatchEvent, error)
}

// EventsHandler 比赛时间线查询
type EventsHandler struct {
	journal EventLister
	matchID func() string
	logger  *zap.Logger
}

// NewEventsHandler journal 为 nil 表示未启用比赛记录库
func NewEventsHandler(journal EventLister, matchID func() string, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{journal: journal, matchID: matchID, logger: logger}
}

// ListEvents 最近的比赛事件，默认当前比赛
// @Summary 查询比赛事件
// @Tags 比赛记录
// @Param match_id query string false "比赛ID（默认当前比赛）"
// @Param limit query int false "数量(默认100，最大500)"
// @Router /api/events [get]
func (h *EventsHandler) ListEvents(c *gin.Context) {
	if h.journal == nil {
		fail(c, http.StatusServiceUnavailable, "match journal disabled")
		return
	}

	matchID := c.Query("match_id")
	if matchID == "" {
		matchID = h.matchID()
	}
	if matchID == "" {
		// 尚未开始上半场
		ok(c, []models.MatchEvent{})
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxEventsLimit)
		}
	}

	events, err := h.journal.ListEvents(c.Request.Context(), matchID, limit)
	if err != nil {
		h.logger.Error("list match events failed", zap.String("match_id", matchID), zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, events)
}
