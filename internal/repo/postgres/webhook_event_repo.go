package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
)

type WebhookEventRepo struct {
	pool *pgxpool.Pool
}

func NewWebhookEventRepo(pool *pgxpool.Pool) *WebhookEventRepo {
	return &WebhookEventRepo{pool: pool}
}

func (r *WebhookEventRepo) Exists(ctx context.Context, provider, eventID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM webhook_events WHERE provider = $1 AND event_id = $2)
`, provider, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check webhook event: %w", err)
	}
	return exists, nil
}

func (r *WebhookEventRepo) MarkProcessed(ctx context.Context, event model.WebhookEvent) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var orderID *int64
	if event.OrderID > 0 {
		orderID = &event.OrderID
	}
	tag, err := r.pool.Exec(ctx, `
INSERT INTO webhook_events (provider, event_id, event_type, order_id, processed_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (provider, event_id) DO NOTHING
`, event.Provider, event.EventID, event.EventType, orderID, event.ProcessedAt)
	if err != nil {
		return false, fmt.Errorf("insert webhook event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *WebhookEventRepo) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM webhook_events WHERE processed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete webhook events: %w", err)
	}
	return tag.RowsAffected(), nil
}
