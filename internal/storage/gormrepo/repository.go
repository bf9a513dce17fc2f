package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taoyao-code/scoreboard-server/internal/storage/models"
)

// ErrEmptyMatchID 查询必须指定比赛
var ErrEmptyMatchID = errors.New("match id is empty")

const defaultListLimit = 100

// Repository 基于 GORM 的比赛记录仓储
type Repository struct {
	db *gorm.DB
}

// New 返回使用给定 *gorm.DB 的仓储
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AppendEvent 追加一条比赛事件
func (r *Repository) AppendEvent(ctx context.Context, ev *models.MatchEvent) error {
	if ev.MatchID == "" {
		return ErrEmptyMatchID
	}
	return r.db.WithContext(ctx).Create(ev).Error
}

// ListEvents 按时间倒序返回某场比赛的事件；limit<=0 时取默认值
func (r *Repository) ListEvents(ctx context.Context, matchID string, limit int) ([]models.MatchEvent, error) {
	if matchID == "" {
		return nil, ErrEmptyMatchID
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	var events []models.MatchEvent
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CountByKind 统计某场比赛各类事件次数
func (r *Repository) CountByKind(ctx context.Context, matchID string) (map[string]int64, error) {
	if matchID == "" {
		return nil, ErrEmptyMatchID
	}
	var rows []struct {
		Kind  string
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.MatchEvent{}).
		Select("kind, COUNT(*) AS total").
		Where("match_id = ?", matchID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Kind] = row.Total
	}
	return out, nil
}
