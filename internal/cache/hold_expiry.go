package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HoldExpiryCache 在 Redis 側影一份 hold 的 TTL（hold_expiry:<id> 帶 SETEX），
// 供外部觀察與除錯；核心的過期判定仍以 ledger/store + Clock 為準。
type HoldExpiryCache interface {
	// 設定：寫入 hold 的過期側影 key
	SetHoldExpiry(ctx context.Context, holdID uuid.UUID, ttl time.Duration) error
	// 清除：hold 確認或取消後移除側影 key
	ClearHoldExpiry(ctx context.Context, holdID uuid.UUID) error
	// 查詢：回傳剩餘 TTL；key 不存在時回傳 0
	GetHoldTTL(ctx context.Context, holdID uuid.UUID) (time.Duration, error)
}

type HoldExpiryCacheImpl struct {
	client *redis.Client
}

func NewHoldExpiryCache(client *redis.Client) HoldExpiryCache {
	return &HoldExpiryCacheImpl{client: client}
}

func (c *HoldExpiryCacheImpl) key(holdID uuid.UUID) string {
	return fmt.Sprintf("hold_expiry:%s", holdID)
}

func (c *HoldExpiryCacheImpl) SetHoldExpiry(ctx context.Context, holdID uuid.UUID, ttl time.Duration) error {
	return c.client.SetEx(ctx, c.key(holdID), holdID.String(), ttl).Err()
}

func (c *HoldExpiryCacheImpl) ClearHoldExpiry(ctx context.Context, holdID uuid.UUID) error {
	return c.client.Del(ctx, c.key(holdID)).Err()
}

func (c *HoldExpiryCacheImpl) GetHoldTTL(ctx context.Context, holdID uuid.UUID) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, c.key(holdID)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
