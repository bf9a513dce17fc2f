package scoreboard

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidTeam 队伍标识既不是 home 也不是 away
var ErrInvalidTeam = errors.New("invalid team")

// Team 队伍标识
type Team string

const (
	Home Team = "home"
	Away Team = "away"
)

// ParseTeam 解析队伍标识（大小写不敏感）
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(s) {
	case string(Home):
		return Home, nil
	case string(Away):
		return Away, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTeam, s)
	}
}

// 比赛阶段
const (
	PeriodNone       uint8 = 0
	PeriodFirstHalf  uint8 = 1
	PeriodSecondHalf uint8 = 2
)

const (
	maxTimerMinutes uint8 = 99
	maxTimerSeconds uint8 = 59

	// PenaltyTryPoints 惩罚达阵固定 7 分，不受计分规则配置影响
	PenaltyTryPoints = 7
)

// MatchState 比赛实时状态（控制器唯一持有，对外只暴露副本）
type MatchState struct {
	MatchID             string `json:"match_id"`
	HomeTeam            string `json:"home_team"`
	AwayTeam            string `json:"away_team"`
	HomeScore           uint16 `json:"home_score"`
	AwayScore           uint16 `json:"away_score"`
	TimerMinutes        uint8  `json:"timer_minutes"`
	TimerSeconds        uint8  `json:"timer_seconds"`
	TimerRunning        bool   `json:"timer_running"`
	Connected           bool   `json:"connected"`
	SimulationMode      bool   `json:"simulation_mode"`
	CurrentPeriod       uint8  `json:"current_period"`
	PeriodTimeRemaining uint16 `json:"period_time_remaining"`
	DisplayDirty        bool   `json:"display_dirty"`
}

// NewMatchState 默认状态；模拟模式下视为已连接
func NewMatchState(simulation bool) MatchState {
	return MatchState{
		HomeTeam:       "HOME",
		AwayTeam:       "AWAY",
		Connected:      simulation,
		SimulationMode: simulation,
	}
}

// TimerText 计时器显示文本 MM:SS
func (s MatchState) TimerText() string {
	return fmt.Sprintf("%02d:%02d", s.TimerMinutes, s.TimerSeconds)
}

// ElapsedSeconds 计时器总秒数
func (s MatchState) ElapsedSeconds() int {
	return int(s.TimerMinutes)*60 + int(s.TimerSeconds)
}

// Score 返回指定队伍得分
func (s MatchState) Score(t Team) uint16 {
	if t == Home {
		return s.HomeScore
	}
	return s.AwayScore
}

func (s *MatchState) adjust(t Team, delta int) {
	p := &s.AwayScore
	if t == Home {
		p = &s.HomeScore
	}
	*p = clampScore(int(*p) + delta)
}

func (s *MatchState) setTimer(minutes, seconds uint8) {
	if minutes > maxTimerMinutes {
		minutes, seconds = maxTimerMinutes, maxTimerSeconds
	}
	if seconds > maxTimerSeconds {
		seconds = maxTimerSeconds
	}
	s.TimerMinutes, s.TimerSeconds = minutes, seconds
}

// tick 模拟时钟走一秒：正计时封顶 99:59，阶段倒计时减到 0 为止
func (s *MatchState) tick() {
	if s.TimerMinutes < maxTimerMinutes || s.TimerSeconds < maxTimerSeconds {
		s.TimerSeconds++
		if s.TimerSeconds > maxTimerSeconds {
			s.TimerSeconds = 0
			s.TimerMinutes++
		}
	}
	if s.CurrentPeriod != PeriodNone && s.PeriodTimeRemaining > 0 {
		s.PeriodTimeRemaining--
	}
}

func clampScore(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(v)
	}
}
