package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Deliverer interface {
	Deliver(ctx context.Context, n Notification)
}

// AsyncQueue hands notifications to a fixed pool of workers. Enqueue never blocks:
// when the buffer is full the notification is dropped and logged.
type AsyncQueue struct {
	deliverer Deliverer
	jobs      chan Notification
	workers   int
	log       *zap.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewAsyncQueue(deliverer Deliverer, workers, buffer int, log *zap.Logger) *AsyncQueue {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AsyncQueue{
		deliverer: deliverer,
		jobs:      make(chan Notification, buffer),
		workers:   workers,
		log:       log,
	}
}

// Start launches the workers. Deliveries run under ctx with cancellation
// stripped so that Close can drain what is already queued.
func (q *AsyncQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	base := context.WithoutCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for n := range q.jobs {
				q.deliver(base, n)
			}
		}()
	}
}

func (q *AsyncQueue) deliver(ctx context.Context, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("notification worker panic", zap.String("kind", string(n.Kind)), zap.Any("panic", r))
		}
	}()
	q.deliverer.Deliver(ctx, n)
}

func (q *AsyncQueue) Enqueue(_ context.Context, n Notification) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.log.Warn("notification dropped, queue closed", zap.String("kind", string(n.Kind)))
		return
	}

	select {
	case q.jobs <- n:
	default:
		q.log.Warn("notification dropped, queue full", zap.String("kind", string(n.Kind)))
	}
}

// Close stops accepting notifications and waits for queued ones to finish or
// for ctx to expire.
func (q *AsyncQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
