package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/queue"
)

func startDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
		defer stopCancel()
		_ = d.Stop(stopCtx)
		<-errCh
	})
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestDispatcherDeliversOffCallerStack(t *testing.T) {
	received := make(chan Event, 1)
	release := make(chan struct{})
	d := NewDispatcher(4, SinkFunc(func(_ context.Context, ev Event) error {
		<-release
		received <- ev
		return nil
	}))
	startDispatcher(t, d)

	// 订阅者阻塞时发布方仍立即返回
	if !d.Publish(Event{SessionID: "s1", Kind: constants.ShopOutcomeAdded}) {
		t.Fatalf("expected publish accepted")
	}
	close(release)
	ev := waitEvent(t, received)
	if ev.SessionID != "s1" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestDispatcherDropsWhenBufferFull(t *testing.T) {
	d := NewDispatcher(1)
	if !d.Publish(Event{Kind: constants.ShopOutcomeAdded}) {
		t.Fatalf("first publish should fit in buffer")
	}
	if d.Publish(Event{Kind: constants.ShopOutcomeAdded}) {
		t.Fatalf("second publish should be dropped")
	}
	if d.Dropped() != 1 {
		t.Fatalf("dropped want 1 got %d", d.Dropped())
	}
}

func TestDispatcherStopDrainsAndRejects(t *testing.T) {
	received := make(chan Event, 4)
	d := NewDispatcher(4, SinkFunc(func(_ context.Context, ev Event) error {
		received <- ev
		return nil
	}))
	d.Publish(Event{SessionID: "s1", Kind: constants.ShopOutcomeSaved})
	d.Publish(Event{SessionID: "s2", Kind: constants.ShopOutcomeSaved})

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Start(context.Background())
	}()

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(stopCtx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected queued events delivered before stop, got %d", len(received))
	}
	if d.Publish(Event{Kind: constants.ShopOutcomeSaved}) {
		t.Fatalf("publish after stop must be rejected")
	}
}

func TestDispatcherSinkErrorDoesNotBlockOthers(t *testing.T) {
	received := make(chan Event, 1)
	d := NewDispatcher(2,
		SinkFunc(func(context.Context, Event) error { return errors.New("boom") }),
	)
	d.Subscribe(SinkFunc(func(_ context.Context, ev Event) error {
		received <- ev
		return nil
	}))
	startDispatcher(t, d)

	d.Publish(Event{SessionID: "s3", Kind: constants.ShopOutcomeCleared})
	if ev := waitEvent(t, received); ev.SessionID != "s3" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestDispatcherStartTwice(t *testing.T) {
	d := NewDispatcher(1)
	startDispatcher(t, d)
	deadline := time.Now().Add(2 * time.Second)
	for !d.started.Load() {
		if time.Now().After(deadline) {
			t.Fatalf("dispatcher did not start")
		}
		time.Sleep(time.Millisecond)
	}
	if err := d.Start(context.Background()); err == nil {
		t.Fatalf("expected second start to fail")
	}
}

func TestQueueSinkDisabledClient(t *testing.T) {
	client, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	if err := QueueSink(client).Deliver(context.Background(), Event{Kind: constants.ShopOutcomeAdded}); err != nil {
		t.Fatalf("disabled queue sink should be noop: %v", err)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	ev := Event{SessionID: "s1", Kind: constants.ShopOutcomeStockLimitExceeded, ProductID: "p1", MaxQuantity: 3, At: at}
	back := EventFromPayload(PayloadFromEvent(ev))
	if back.SessionID != ev.SessionID || back.MaxQuantity != 3 || !back.At.Equal(at) {
		t.Fatalf("unexpected event %+v", back)
	}
}
