package queue

import (
	"context"

	"go-gin-prize-draw/internal/realtime"
)

type Delivery struct {
	Data *realtime.Envelope
	Ack  func()
	Nack func(requeue bool)
}

// EventQueue 廣播事件的 outbox：狀態變更提交後才發布，
// broadcast worker 依發布順序消費並交給 Hub
type EventQueue interface {
	// 發送房間事件到隊列
	PublishEvent(ctx context.Context, evt *realtime.Envelope) error
	// 訂閱房間事件隊列
	SubscribeEvents(ctx context.Context) (<-chan Delivery, error)
}

type EventQueueImpl struct {
	// 使用 Go channel 的單機版隊列
	ch chan *realtime.Envelope
}

func NewEventQueue(bufferSize int) EventQueue {
	return &EventQueueImpl{
		ch: make(chan *realtime.Envelope, bufferSize),
	}
}

func (q *EventQueueImpl) PublishEvent(ctx context.Context, evt *realtime.Envelope) error {
	select {
	case q.ch <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *EventQueueImpl) SubscribeEvents(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: evt,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- evt // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
