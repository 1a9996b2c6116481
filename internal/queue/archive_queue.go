package queue

import (
	"context"

	"boxoffice/internal/model"
)

type Delivery struct {
	Data *model.ArchiveRecord
	Ack  func()
	Nack func(requeue bool)
}

// ArchiveQueue 核心與歷史儲存之間的緩衝：核心發出紀錄後立即返回，
// 持久化由訂閱端非同步完成
type ArchiveQueue interface {
	// 發送歷史紀錄到隊列
	PublishRecord(ctx context.Context, record *model.ArchiveRecord) error
	// 訂閱歷史紀錄隊列
	SubscribeRecords(ctx context.Context) (<-chan Delivery, error)
}

type ArchiveQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.ArchiveRecord
}

func NewArchiveQueue(bufferSize int) ArchiveQueue {
	return &ArchiveQueueImpl{
		ch: make(chan *model.ArchiveRecord, bufferSize),
	}
}

func (q *ArchiveQueueImpl) PublishRecord(ctx context.Context, record *model.ArchiveRecord) error {
	select {
	case q.ch <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ArchiveQueueImpl) SubscribeRecords(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case record, ok := <-q.ch:
				if !ok {
					return
				}

				// 將原始紀錄包裝成 Delivery 格式給 Worker
				out <- Delivery{
					Data: record,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- record // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
