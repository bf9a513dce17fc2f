package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool 比赛记录库连接池
type Pool interface {
	Ping(ctx context.Context) error
	Stat() *pgxpool.Stat
}

// DatabaseChecker 比赛记录库不可用只降级，记录写入失败仅打日志
type DatabaseChecker struct {
	pool Pool
}

func NewDatabaseChecker(pool Pool) *DatabaseChecker {
	return &DatabaseChecker{pool: pool}
}

func (c *DatabaseChecker) Name() string { return "database" }

func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if err := c.pool.Ping(ctx); err != nil {
		return timed(start, CheckResult{Status: StatusDegraded, Message: "match journal unreachable: " + err.Error()})
	}
	st := c.pool.Stat()
	return timed(start, poolResult(int64(st.AcquiredConns()), int64(st.MaxConns())))
}
