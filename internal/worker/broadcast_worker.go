package worker

import (
	"context"

	"go-gin-prize-draw/internal/queue"
	"go-gin-prize-draw/internal/realtime"
)

type BroadcastWorker interface {
	// 訂閱事件隊列並開始轉發
	Start(ctx context.Context) error
}

type BroadcastWorkerImpl struct {
	hub   *realtime.Hub
	queue queue.EventQueue
}

func NewBroadcastWorker(hub *realtime.Hub, queue queue.EventQueue) BroadcastWorker {
	return &BroadcastWorkerImpl{
		hub:   hub,
		queue: queue,
	}
}

// Start 單一 goroutine 依隊列順序把事件交給 Hub，
// 同一房間的廣播順序因此跟狀態提交順序一致
func (w *BroadcastWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeEvents(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if !msg.Data.Event.IsValid() {
				// 未知事件直接丟棄，重試也不會變有效
				msg.Nack(false)
				continue
			}
			w.hub.Broadcast(msg.Data)
			msg.Ack()
		}
	}()
	return nil
}
