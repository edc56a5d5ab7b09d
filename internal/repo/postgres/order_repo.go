package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	orderssvc "github.com/johnlatif16/king-store-esport/internal/services/orders"
)

const orderColumns = `id, name, player_id, email, purchase_type, COALESCE(uc_amount, ''), COALESCE(bundle, ''),
total_amount::text, transaction_id, screenshot_key, status, created_at, updated_at`

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if r.pool == nil {
		return model.Order{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO orders (name, player_id, email, purchase_type, uc_amount, bundle, total_amount, transaction_id, screenshot_key, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7::numeric, $8, $9, $10, NOW(), NOW())
RETURNING `+orderColumns,
		order.Name,
		order.PlayerID,
		order.Email,
		string(order.Type),
		order.UCAmount,
		order.Bundle,
		order.TotalAmount.String(),
		order.TransactionID,
		order.ScreenshotKey,
		string(order.Status),
	)
	created, err := scanOrder(row)
	if err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return created, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (model.Order, error) {
	if r.pool == nil {
		return model.Order{}, fmt.Errorf("postgres pool is nil")
	}

	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, orderssvc.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) (model.Order, error) {
	if r.pool == nil {
		return model.Order{}, fmt.Errorf("postgres pool is nil")
	}

	o, err := scanOrder(r.pool.QueryRow(ctx, `
UPDATE orders
SET status = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+orderColumns, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, orderssvc.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) (model.Order, error) {
	if r.pool == nil {
		return model.Order{}, fmt.Errorf("postgres pool is nil")
	}

	o, err := scanOrder(r.pool.QueryRow(ctx, `DELETE FROM orders WHERE id = $1 RETURNING `+orderColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, orderssvc.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("delete order: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o      model.Order
		kind   string
		status string
		total  string
	)
	if err := row.Scan(
		&o.ID,
		&o.Name,
		&o.PlayerID,
		&o.Email,
		&kind,
		&o.UCAmount,
		&o.Bundle,
		&total,
		&o.TransactionID,
		&o.ScreenshotKey,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return model.Order{}, err
	}

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return model.Order{}, fmt.Errorf("parse total amount: %w", err)
	}
	o.TotalAmount = amount
	o.Type = enums.PurchaseType(kind)
	o.Status = enums.OrderStatus(status)
	return o, nil
}
