package scoreboard

import (
	"context"

	"github.com/google/uuid"
)

// AddTry 达阵加分
func (c *Controller) AddTry(ctx context.Context, team string) error {
	return c.score(ctx, EventTry, team, int(c.rugby.TryPoints))
}

// RemoveTry 撤销达阵，得分不低于 0
func (c *Controller) RemoveTry(ctx context.Context, team string) error {
	return c.score(ctx, EventTryRemoved, team, -int(c.rugby.TryPoints))
}

func (c *Controller) AddConversion(ctx context.Context, team string) error {
	return c.score(ctx, EventConversion, team, int(c.rugby.ConversionPoints))
}

func (c *Controller) RemoveConversion(ctx context.Context, team string) error {
	return c.score(ctx, EventConversionRemoved, team, -int(c.rugby.ConversionPoints))
}

func (c *Controller) AddPenalty(ctx context.Context, team string) error {
	return c.score(ctx, EventPenalty, team, int(c.rugby.PenaltyPoints))
}

func (c *Controller) RemovePenalty(ctx context.Context, team string) error {
	return c.score(ctx, EventPenaltyRemoved, team, -int(c.rugby.PenaltyPoints))
}

// AddPenaltyTry 惩罚达阵固定 +7
func (c *Controller) AddPenaltyTry(ctx context.Context, team string) error {
	return c.score(ctx, EventPenaltyTry, team, PenaltyTryPoints)
}

func (c *Controller) score(ctx context.Context, kind EventKind, team string, delta int) error {
	t, err := ParseTeam(team)
	if err != nil {
		if c.metrics != nil {
			c.metrics.OperationsTotal.WithLabelValues(string(kind), "invalid").Inc()
		}
		return err
	}
	return c.apply(ctx, Event{Kind: kind, Team: t, Delta: delta}, func(s *MatchState) {
		s.adjust(t, delta)
	})
}

// StartFirstHalf 上半场：计时归零后开始，倒计时为上半场时长。开启新的比赛编号
func (c *Controller) StartFirstHalf(ctx context.Context) error {
	c.mu.Lock()
	c.state.MatchID = uuid.NewString()
	c.state.CurrentPeriod = PeriodFirstHalf
	c.state.PeriodTimeRemaining = uint16(c.rugby.FirstHalfMinutes) * 60
	c.mu.Unlock()
	c.publish(ctx, Event{Kind: EventPeriodStart})

	if err := c.SetTimer(ctx, 0, 0); err != nil {
		return err
	}
	return c.StartTimer(ctx)
}

// StartSecondHalf 下半场：计时不归零继续走
func (c *Controller) StartSecondHalf(ctx context.Context) error {
	c.mu.Lock()
	c.state.CurrentPeriod = PeriodSecondHalf
	c.state.PeriodTimeRemaining = uint16(c.rugby.SecondHalfMinutes) * 60
	c.mu.Unlock()
	c.publish(ctx, Event{Kind: EventPeriodStart})

	return c.StartTimer(ctx)
}

// EndPeriod 结束当前阶段并停表
func (c *Controller) EndPeriod(ctx context.Context) error {
	c.mu.Lock()
	c.state.CurrentPeriod = PeriodNone
	c.state.PeriodTimeRemaining = 0
	c.mu.Unlock()
	c.publish(ctx, Event{Kind: EventPeriodEnd})

	return c.StopTimer(ctx)
}
