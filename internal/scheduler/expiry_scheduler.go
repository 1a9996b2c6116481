package scheduler

import (
	"context"
	"time"

	"boxoffice/internal/clock"
	"boxoffice/pkg/logger"

	"go.uber.org/zap"
)

type expiryReclaimer interface {
	ReclaimExpired(ctx context.Context, now time.Time) (int, error)
}

// ExpirySweeper 週期性觸發器：只負責按時呼叫 ReclaimExpired，不持有任何座位資料。
// 回收已過期 hold 是冪等的，掃描重疊或重試不會造成重複歸還。
type ExpirySweeper struct {
	service  expiryReclaimer
	clock    clock.Clock
	interval time.Duration
}

func NewExpirySweeper(service expiryReclaimer, clk clock.Clock, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		service:  service,
		clock:    clk,
		interval: interval,
	}
}

// Start 阻塞執行到 ctx 取消為止；呼叫端自行決定要不要放進 goroutine
func (s *ExpirySweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := logger.WithComponent("scheduler")
	log.Info("expiry sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ExpirySweeper) tick(ctx context.Context) {
	reclaimed, err := s.service.ReclaimExpired(ctx, s.clock.Now())
	if err != nil {
		logger.WithComponent("scheduler").Error("reclaim expired holds failed", zap.Error(err))
		return
	}
	if reclaimed > 0 {
		logger.WithComponent("scheduler").Info("sweep reclaimed holds", zap.Int("count", reclaimed))
	}
}
