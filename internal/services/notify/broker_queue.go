package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// BrokerQueue publishes notifications for an out-of-process notifier. When
// publishing fails the notification goes to fallback instead.
type BrokerQueue struct {
	publisher Publisher
	fallback  Enqueuer
	log       *zap.Logger
}

func NewBrokerQueue(publisher Publisher, fallback Enqueuer, log *zap.Logger) *BrokerQueue {
	if fallback == nil {
		fallback = Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BrokerQueue{publisher: publisher, fallback: fallback, log: log}
}

func (q *BrokerQueue) Enqueue(ctx context.Context, n Notification) {
	body, err := json.Marshal(n)
	if err != nil {
		q.log.Error("encode notification", zap.String("kind", string(n.Kind)), zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := q.publisher.Publish(pubCtx, body); err != nil {
		q.log.Warn("publish notification failed, delivering in process",
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
		q.fallback.Enqueue(ctx, n)
	}
}

// MessageHandler decodes a published notification and delivers it.
func MessageHandler(d Deliverer) func(ctx context.Context, body []byte) error {
	return func(ctx context.Context, body []byte) error {
		var n Notification
		if err := json.Unmarshal(body, &n); err != nil {
			return fmt.Errorf("decode notification: %w", err)
		}
		if n.Kind == "" {
			return fmt.Errorf("notification kind is empty")
		}
		d.Deliver(ctx, n)
		return nil
	}
}
