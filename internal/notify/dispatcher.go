package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/florarie-simona/internal/logger"
)

const (
	defaultBuffer   = 256
	deliverTimeout  = 5 * time.Second
	dispatcherLabel = "notify"
)

// Sink 事件订阅者
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}

// SinkFunc 函数形式的订阅者
type SinkFunc func(ctx context.Context, ev Event) error

// Deliver 实现 Sink
func (f SinkFunc) Deliver(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Dispatcher 事件队列：发布方只负责入队，投递在独立 goroutine 中进行，
// 订阅者永远不会在引擎变更的调用栈内执行
type Dispatcher struct {
	events chan Event

	mu     sync.RWMutex
	sinks  []Sink
	closed bool

	started  atomic.Bool
	dropped  atomic.Int64
	stopOnce sync.Once
	done     chan struct{}
}

// NewDispatcher 创建事件队列
func NewDispatcher(buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		events: make(chan Event, buffer),
		sinks:  append([]Sink(nil), sinks...),
		done:   make(chan struct{}),
	}
}

// Subscribe 追加订阅者
func (d *Dispatcher) Subscribe(sink Sink) {
	if d == nil || sink == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

// Publish 非阻塞入队；队列已满或已关闭时丢弃并返回 false
func (d *Dispatcher) Publish(ev Event) bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.events <- ev:
		return true
	default:
		d.dropped.Add(1)
		logger.Warnw("notify_event_dropped",
			"session_id", ev.SessionID,
			"kind", ev.Kind,
			"product_id", ev.ProductID,
		)
		return false
	}
}

// Dropped 被丢弃的事件数
func (d *Dispatcher) Dropped() int64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Name 服务名称
func (d *Dispatcher) Name() string {
	return dispatcherLabel
}

// Start 启动投递循环，直到 ctx 结束或 Stop 被调用
func (d *Dispatcher) Start(ctx context.Context) error {
	if d == nil {
		return errors.New("dispatcher not initialized")
	}
	if !d.started.CompareAndSwap(false, true) {
		return errors.New("dispatcher already started")
	}
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case ev, ok := <-d.events:
			if !ok {
				return nil
			}
			d.deliver(ev)
		}
	}
}

// Stop 关闭队列并等待已入队事件投递完成
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d == nil {
		return nil
	}
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.events)
		d.mu.Unlock()
	})
	if !d.started.Load() {
		return nil
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				return
			}
			d.deliver(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	d.mu.RLock()
	sinks := append([]Sink(nil), d.sinks...)
	d.mu.RUnlock()
	for _, sink := range sinks {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		if err := sink.Deliver(ctx, ev); err != nil {
			logger.Warnw("notify_deliver_failed",
				"session_id", ev.SessionID,
				"kind", ev.Kind,
				"error", err,
			)
		}
		cancel()
	}
}
