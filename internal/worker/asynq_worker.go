package worker

import (
	"context"
	"strings"

	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/notify"
	"github.com/florarie-simona/internal/provider"
	"github.com/florarie-simona/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskShopToast, c.handleShopToast)
}

func (c *Consumer) handleShopToast(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_shop_toast_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseShopToastPayload(task)
	if err != nil {
		logger.Warnw("worker_shop_toast_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.SessionID) == "" {
		logger.Debugw("worker_shop_toast_skip_invalid_payload", "kind", payload.Kind)
		return nil
	}
	if c.Container == nil || c.ToastFeed == nil {
		logger.Warnw("worker_shop_toast_skip_feed_nil", "session_id", payload.SessionID)
		return nil
	}
	toast, ok := notify.BuildToast(notify.EventFromPayload(payload))
	if !ok {
		logger.Debugw("worker_shop_toast_skip_silent", "session_id", payload.SessionID, "kind", payload.Kind)
		return nil
	}
	if err := c.ToastFeed.Push(ctx, payload.SessionID, toast); err != nil {
		logger.Warnw("worker_shop_toast_push_failed",
			"session_id", payload.SessionID,
			"kind", payload.Kind,
			"error", err,
		)
		return err
	}
	return nil
}
