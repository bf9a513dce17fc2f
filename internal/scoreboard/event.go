package scoreboard

import (
	"context"
	"time"
)

// EventKind 状态变化类型
type EventKind string

const (
	EventTeamsSet          EventKind = "set_teams"
	EventScoresSet         EventKind = "set_scores"
	EventScoreIncrement    EventKind = "increment"
	EventScoresReset       EventKind = "reset_scores"
	EventTimerSet          EventKind = "timer_set"
	EventTimerStart        EventKind = "timer_start"
	EventTimerStop         EventKind = "timer_stop"
	EventTry               EventKind = "try"
	EventTryRemoved        EventKind = "try_removed"
	EventConversion        EventKind = "conversion"
	EventConversionRemoved EventKind = "conversion_removed"
	EventPenalty           EventKind = "penalty"
	EventPenaltyRemoved    EventKind = "penalty_removed"
	EventPenaltyTry        EventKind = "penalty_try"
	EventPeriodStart       EventKind = "period_start"
	EventPeriodEnd         EventKind = "period_end"
	EventClockTick         EventKind = "tick"
	EventLink              EventKind = "link"
	EventRestored          EventKind = "restored"
)

// Journaled 是否写入比赛记录（时钟跳秒和链路变化不记录）
func (k EventKind) Journaled() bool {
	switch k {
	case EventClockTick, EventLink, EventRestored:
		return false
	default:
		return true
	}
}

// Event 一次状态变化
type Event struct {
	Kind  EventKind `json:"kind"`
	Team  Team      `json:"team,omitempty"`
	Delta int       `json:"delta,omitempty"`
	At    time.Time `json:"at"`
}

// StateObserver 状态变化订阅者（实时推送、事件总线、快照缓存）
// 实现方不得阻塞
type StateObserver interface {
	OnStateChange(ctx context.Context, ev Event, st MatchState)
}

// ObserverFunc 函数适配器
type ObserverFunc func(ctx context.Context, ev Event, st MatchState)

func (f ObserverFunc) OnStateChange(ctx context.Context, ev Event, st MatchState) {
	f(ctx, ev, st)
}

// Journal 比赛记录持久化
type Journal interface {
	Record(ctx context.Context, ev Event, st MatchState) error
}
