package notify

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingDeliverer struct {
	mu    sync.Mutex
	kinds []Kind
	gate  chan struct{}
}

func (r *recordingDeliverer) Deliver(_ context.Context, n Notification) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, n.Kind)
}

func (r *recordingDeliverer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.kinds)
}

func TestAsyncQueueDrainsOnClose(t *testing.T) {
	d := &recordingDeliverer{}
	q := NewAsyncQueue(d, 2, 16, nil)
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		q.Enqueue(context.Background(), Notification{Kind: KindNewOrder})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := q.Close(ctx); err != nil {
		t.Fatalf("close queue: %v", err)
	}
	if d.count() != 5 {
		t.Fatalf("unexpected deliveries: got %d want %d", d.count(), 5)
	}
}

func TestAsyncQueueDropsWhenFull(t *testing.T) {
	d := &recordingDeliverer{gate: make(chan struct{})}
	q := NewAsyncQueue(d, 1, 1, nil)
	q.Start(context.Background())

	for i := 0; i < 10; i++ {
		q.Enqueue(context.Background(), Notification{Kind: KindBroadcast})
	}
	close(d.gate)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := q.Close(ctx); err != nil {
		t.Fatalf("close queue: %v", err)
	}
	if got := d.count(); got < 1 || got > 2 {
		t.Fatalf("expected at most worker+buffer deliveries, got %d", got)
	}
}

func TestAsyncQueueIgnoresEnqueueAfterClose(t *testing.T) {
	d := &recordingDeliverer{}
	q := NewAsyncQueue(d, 1, 4, nil)
	q.Start(context.Background())
	if err := q.Close(context.Background()); err != nil {
		t.Fatalf("close queue: %v", err)
	}

	q.Enqueue(context.Background(), Notification{Kind: KindNewOrder})

	if d.count() != 0 {
		t.Fatalf("notification after close must be dropped")
	}
}

func TestAsyncQueueIgnoresCancelledParent(t *testing.T) {
	d := &recordingDeliverer{}
	q := NewAsyncQueue(d, 1, 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	cancel()

	q.Enqueue(context.Background(), Notification{Kind: KindNewInquiry})
	if err := q.Close(context.Background()); err != nil {
		t.Fatalf("close queue: %v", err)
	}
	if d.count() != 1 {
		t.Fatalf("queued notification should still be delivered, got %d", d.count())
	}
}
