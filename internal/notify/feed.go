package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/florarie-simona/internal/cache"
	"github.com/florarie-simona/internal/logger"
)

const defaultFeedLimit = 50

// ToastFeed 会话提示流
type ToastFeed interface {
	Push(ctx context.Context, sessionID string, toast Toast) error
	Drain(ctx context.Context, sessionID string) ([]Toast, error)
}

// MemoryFeed 进程内提示流，每个会话最多保留 limit 条
type MemoryFeed struct {
	mu     sync.Mutex
	limit  int
	toasts map[string][]Toast
	active func(sessionID string) bool
}

// NewMemoryFeed 创建内存提示流
func NewMemoryFeed(limit int) *MemoryFeed {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	return &MemoryFeed{limit: limit, toasts: make(map[string][]Toast)}
}

// AcceptOnly 限定只为仍处于打开状态的会话保留提示
func (f *MemoryFeed) AcceptOnly(active func(sessionID string) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = active
}

// Push 追加提示；会话已关闭时丢弃
func (f *MemoryFeed) Push(_ context.Context, sessionID string, toast Toast) error {
	f.mu.Lock()
	active := f.active
	f.mu.Unlock()
	if active != nil && !active(sessionID) {
		logger.Debugw("notify_feed_skip_closed_session", "session_id", sessionID, "key", toast.Key)
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	list := append(f.toasts[sessionID], toast)
	if len(list) > f.limit {
		list = append([]Toast(nil), list[len(list)-f.limit:]...)
	}
	f.toasts[sessionID] = list
	return nil
}

// Drain 读取并清空
func (f *MemoryFeed) Drain(_ context.Context, sessionID string) ([]Toast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.toasts[sessionID]
	delete(f.toasts, sessionID)
	return list, nil
}

// Forget 丢弃会话提示（会话结束时调用）
func (f *MemoryFeed) Forget(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.toasts, sessionID)
}

// RedisFeed 基于 Redis 列表的提示流，多实例部署时 worker 与 API 共享
type RedisFeed struct {
	limit int
	ttl   time.Duration
}

// NewRedisFeed 创建 Redis 提示流（依赖 cache 包已初始化的客户端）
func NewRedisFeed(limit int, ttl time.Duration) *RedisFeed {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	return &RedisFeed{limit: limit, ttl: ttl}
}

// Push 追加提示
func (f *RedisFeed) Push(ctx context.Context, sessionID string, toast Toast) error {
	return cache.PushJSON(ctx, feedKey(sessionID), toast, f.limit, f.ttl)
}

// Drain 读取并清空，无法解析的条目被跳过
func (f *RedisFeed) Drain(ctx context.Context, sessionID string) ([]Toast, error) {
	raw, err := cache.DrainList(ctx, feedKey(sessionID))
	if err != nil {
		return nil, err
	}
	toasts := make([]Toast, 0, len(raw))
	for _, item := range raw {
		var toast Toast
		if err := json.Unmarshal([]byte(item), &toast); err != nil {
			logger.Warnw("notify_feed_item_malformed", "session_id", sessionID, "error", err)
			continue
		}
		toasts = append(toasts, toast)
	}
	return toasts, nil
}

func feedKey(sessionID string) string {
	return fmt.Sprintf("toasts:%s", sessionID)
}
