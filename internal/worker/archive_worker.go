package worker

import (
	"context"

	"boxoffice/internal/model"
	"boxoffice/internal/queue"
	"boxoffice/internal/repository"
	"boxoffice/pkg/logger"

	"go.uber.org/zap"
)

type ArchiveWorker interface {
	// 訂閱歷史紀錄隊列
	Start(ctx context.Context) error
}

type ArchiveWorkerImpl struct {
	repo  repository.ArchiveRepository
	queue queue.ArchiveQueue
}

func NewArchiveWorker(repo repository.ArchiveRepository, queue queue.ArchiveQueue) ArchiveWorker {
	return &ArchiveWorkerImpl{
		repo:  repo,
		queue: queue,
	}
}

func (w *ArchiveWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeRecords(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.persist(ctx, msg.Data); err != nil {
				// 資料庫暫時寫不進去就重試
				logger.WithComponent("worker").Warn("persist archive record failed",
					zap.String("kind", string(msg.Data.Kind)), zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}

func (w *ArchiveWorkerImpl) persist(ctx context.Context, record *model.ArchiveRecord) error {
	switch record.Kind {
	case model.ArchiveKindEvent:
		return w.repo.InsertEvent(ctx, record.Event)
	case model.ArchiveKindHold:
		return w.repo.UpsertHold(ctx, record.Hold)
	case model.ArchiveKindBooking:
		return w.repo.InsertBooking(ctx, record.Booking)
	default:
		logger.WithComponent("worker").Warn("unknown archive record kind",
			zap.String("kind", string(record.Kind)))
		return nil
	}
}
