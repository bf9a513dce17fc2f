package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
	"github.com/taoyao-code/scoreboard-server/internal/storage/gormrepo"
	"github.com/taoyao-code/scoreboard-server/internal/storage/models"
	pgstorage "github.com/taoyao-code/scoreboard-server/internal/storage/pg"
)

// EventStore 比赛记录存储
type EventStore interface {
	AppendEvent(ctx context.Context, ev *models.MatchEvent) error
	ListEvents(ctx context.Context, matchID string, limit int) ([]models.MatchEvent, error)
}

// Journal 将控制器事件写入比赛记录库（实现 scoreboard.Journal）
type Journal struct {
	store EventStore
}

// NewJournal 基于连接池打开 GORM 仓储
func NewJournal(pool *pgxpool.Pool) (*Journal, error) {
	db, err := pgstorage.OpenGorm(pool)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{store: gormrepo.New(db)}, nil
}

// Record 追加一条事件
func (j *Journal) Record(ctx context.Context, ev scoreboard.Event, st scoreboard.MatchState) error {
	return j.store.AppendEvent(ctx, toMatchEvent(ev, st))
}

// ListEvents 查询某场比赛的事件
func (j *Journal) ListEvents(ctx context.Context, matchID string, limit int) ([]models.MatchEvent, error) {
	return j.store.ListEvents(ctx, matchID, limit)
}

func toMatchEvent(ev scoreboard.Event, st scoreboard.MatchState) *models.MatchEvent {
	return &models.MatchEvent{
		MatchID:      st.MatchID,
		Kind:         string(ev.Kind),
		Team:         string(ev.Team),
		Delta:        int32(ev.Delta),
		HomeScore:    int32(st.HomeScore),
		AwayScore:    int32(st.AwayScore),
		Period:       int16(st.CurrentPeriod),
		ClockSeconds: int32(st.ElapsedSeconds()),
		CreatedAt:    ev.At,
	}
}
