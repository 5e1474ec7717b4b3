package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotStatus slot 处理状态。
type SlotStatus int

const (
	SlotUnknown   SlotStatus = iota // 无记录
	SlotProcessed                   // 已解析并发送
	SlotPending                     // 发送中（进程崩溃后可据此重放）
)

const (
	slotKeyPrefix = "parser:progress:slot"
	slotTTL       = 3 * 24 * time.Hour
)

// RedisProgressStore 记录 slot 处理进度（幂等控制）。
// 重连 gRPC 后推送会从最近 slot 重放，已处理的 slot 直接跳过。
type RedisProgressStore struct {
	rdb *redis.Client
}

func NewRedisProgressStore(rdb *redis.Client) *RedisProgressStore {
	return &RedisProgressStore{rdb: rdb}
}

func slotKey(slot uint64) string {
	return fmt.Sprintf("%s:%d", slotKeyPrefix, slot)
}

// Status 查询 slot 状态。
func (r *RedisProgressStore) Status(ctx context.Context, slot uint64) (SlotStatus, error) {
	val, err := r.rdb.Get(ctx, slotKey(slot)).Int()
	switch {
	case err == redis.Nil:
		return SlotUnknown, nil
	case err != nil:
		return SlotUnknown, fmt.Errorf("redis get error: %w", err)
	default:
		return SlotStatus(val), nil
	}
}

// MarkPending 标记 slot 进入发送流程。
func (r *RedisProgressStore) MarkPending(ctx context.Context, slot uint64) error {
	return r.rdb.Set(ctx, slotKey(slot), int(SlotPending), slotTTL).Err()
}

// MarkProcessed 标记 slot 处理完成。
func (r *RedisProgressStore) MarkProcessed(ctx context.Context, slot uint64) error {
	return r.rdb.Set(ctx, slotKey(slot), int(SlotProcessed), slotTTL).Err()
}
