package models

import (
	"time"
)

// 注意：
// - 保持与 internal/migrate/sql 下的建表语句对齐
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// MatchEvent 映射 match_events 表（比赛记录，只追加）
type MatchEvent struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MatchID string `gorm:"column:match_id;type:uuid;not null;index:idx_match_events_match,priority:1" json:"match_id"`
	// try / conversion / penalty / penalty_try / set_scores / period_start ...
	Kind string `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	// home / away，整场类事件为空
	Team      string `gorm:"column:team;type:varchar(8);not null;default:''" json:"team"`
	Delta     int32  `gorm:"column:delta;not null;default:0" json:"delta"`
	HomeScore int32  `gorm:"column:home_score;not null" json:"home_score"`
	AwayScore int32  `gorm:"column:away_score;not null" json:"away_score"`
	Period    int16  `gorm:"column:period;not null" json:"period"`
	// 事件发生时计时器读数（秒）
	ClockSeconds int32     `gorm:"column:clock_seconds;not null;default:0" json:"clock_seconds"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index:idx_match_events_match,priority:2" json:"created_at"`
}

func (MatchEvent) TableName() string { return "match_events" }
