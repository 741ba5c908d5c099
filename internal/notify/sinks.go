package notify

import (
	"context"
	"time"

	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/queue"
)

// LogSink 以结构化日志记录提示
func LogSink() Sink {
	return SinkFunc(func(_ context.Context, ev Event) error {
		toast, ok := BuildToast(ev)
		if !ok {
			return nil
		}
		logger.Debugw("shop_toast",
			"session_id", ev.SessionID,
			"level", toast.Level,
			"key", toast.Key,
			"product_id", ev.ProductID,
		)
		return nil
	})
}

// FeedSink 将提示写入会话提示流，由 UI 轮询读取
func FeedSink(feed ToastFeed) Sink {
	return SinkFunc(func(ctx context.Context, ev Event) error {
		if feed == nil {
			return nil
		}
		toast, ok := BuildToast(ev)
		if !ok {
			return nil
		}
		return feed.Push(ctx, ev.SessionID, toast)
	})
}

// QueueSink 将事件转交异步队列，由 worker 写入提示流
func QueueSink(client *queue.Client) Sink {
	return SinkFunc(func(_ context.Context, ev Event) error {
		if !client.Enabled() {
			return nil
		}
		return client.EnqueueShopToast(PayloadFromEvent(ev))
	})
}

// PayloadFromEvent 事件转任务载荷
func PayloadFromEvent(ev Event) queue.ShopToastPayload {
	return queue.ShopToastPayload{
		SessionID:   ev.SessionID,
		Kind:        ev.Kind,
		Collection:  ev.Collection,
		ProductID:   ev.ProductID,
		Name:        ev.Name,
		Quantity:    ev.Quantity,
		MaxQuantity: ev.MaxQuantity,
		At:          ev.At.UnixMilli(),
	}
}

// EventFromPayload 任务载荷还原为事件
func EventFromPayload(payload queue.ShopToastPayload) Event {
	return Event{
		SessionID:   payload.SessionID,
		Kind:        payload.Kind,
		Collection:  payload.Collection,
		ProductID:   payload.ProductID,
		Name:        payload.Name,
		Quantity:    payload.Quantity,
		MaxQuantity: payload.MaxQuantity,
		At:          time.UnixMilli(payload.At),
	}
}
