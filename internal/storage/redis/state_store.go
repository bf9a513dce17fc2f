package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
)

// kv StateStore 用到的 Redis 命令子集
type kv interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// tickSaveEvery 计时跳秒时每隔多少秒落一次快照
const tickSaveEvery = 10

// saveTimeout 单次快照写入超时
const saveTimeout = time.Second

// StateStore 比赛状态快照：进程重启后恢复队名、比分与计时
// OnStateChange 只投递最新快照，由 Run 的写协程落盘
type StateStore struct {
	rdb     kv
	key     string
	ttl     time.Duration
	log     *zap.Logger
	pending chan scoreboard.MatchState
}

// NewStateStore 创建快照存储
func NewStateStore(rdb kv, key string, ttl time.Duration, log *zap.Logger) *StateStore {
	if key == "" {
		key = "scoreboard:state"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StateStore{rdb: rdb, key: key, ttl: ttl, log: log, pending: make(chan scoreboard.MatchState, 1)}
}

// Save 写入快照
func (s *StateStore) Save(ctx context.Context, st scoreboard.MatchState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Load 读取快照；不存在时 ok=false
func (s *StateStore) Load(ctx context.Context) (st scoreboard.MatchState, ok bool, err error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, false, fmt.Errorf("unmarshal state: %w", err)
	}
	return st, true, nil
}

// OnStateChange 实现 scoreboard.StateObserver；不阻塞，未写入的旧快照被替换
func (s *StateStore) OnStateChange(_ context.Context, ev scoreboard.Event, st scoreboard.MatchState) {
	if !shouldSave(ev, st) {
		return
	}
	for {
		select {
		case s.pending <- st:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// shouldSave 跳秒每 tickSaveEvery 秒落一次，其余变化都落
func shouldSave(ev scoreboard.Event, st scoreboard.MatchState) bool {
	return ev.Kind != scoreboard.EventClockTick || st.ElapsedSeconds()%tickSaveEvery == 0
}

// Run 写协程，阻塞直到 ctx 取消；退出前写入最后一份快照
func (s *StateStore) Run(ctx context.Context) {
	for {
		select {
		case st := <-s.pending:
			s.write(ctx, st)
		case <-ctx.Done():
			select {
			case st := <-s.pending:
				s.write(context.WithoutCancel(ctx), st)
			default:
			}
			return
		}
	}
}

func (s *StateStore) write(ctx context.Context, st scoreboard.MatchState) {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	if err := s.Save(ctx, st); err != nil {
		s.log.Warn("save state snapshot failed", zap.Error(err))
	}
}
