package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	inquiriessvc "github.com/johnlatif16/king-store-esport/internal/services/inquiries"
)

const inquiryColumns = `id, name, email, message, status, replied_at, created_at`

type InquiryRepo struct {
	pool *pgxpool.Pool
}

func NewInquiryRepo(pool *pgxpool.Pool) *InquiryRepo {
	return &InquiryRepo{pool: pool}
}

func (r *InquiryRepo) Create(ctx context.Context, inquiry model.Inquiry) (model.Inquiry, error) {
	if r.pool == nil {
		return model.Inquiry{}, fmt.Errorf("postgres pool is nil")
	}

	created, err := scanInquiry(r.pool.QueryRow(ctx, `
INSERT INTO inquiries (name, email, message, status, created_at)
VALUES ($1, $2, $3, $4, NOW())
RETURNING `+inquiryColumns, inquiry.Name, inquiry.Email, inquiry.Message, string(inquiry.Status)))
	if err != nil {
		return model.Inquiry{}, fmt.Errorf("insert inquiry: %w", err)
	}
	return created, nil
}

func (r *InquiryRepo) List(ctx context.Context) ([]model.Inquiry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `SELECT `+inquiryColumns+` FROM inquiries ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	items := make([]model.Inquiry, 0)
	for rows.Next() {
		item, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return items, nil
}

func (r *InquiryRepo) Get(ctx context.Context, id int64) (model.Inquiry, error) {
	if r.pool == nil {
		return model.Inquiry{}, fmt.Errorf("postgres pool is nil")
	}

	item, err := scanInquiry(r.pool.QueryRow(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Inquiry{}, inquiriessvc.ErrNotFound
		}
		return model.Inquiry{}, fmt.Errorf("get inquiry: %w", err)
	}
	return item, nil
}

func (r *InquiryRepo) MarkReplied(ctx context.Context, id int64, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE inquiries
SET status = $2, replied_at = $3
WHERE id = $1
`, id, string(enums.InquiryStatusReplied), at)
	if err != nil {
		return fmt.Errorf("mark inquiry replied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inquiriessvc.ErrNotFound
	}
	return nil
}

func (r *InquiryRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inquiriessvc.ErrNotFound
	}
	return nil
}

func scanInquiry(row pgx.Row) (model.Inquiry, error) {
	var (
		item   model.Inquiry
		status string
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Email, &item.Message, &status, &item.RepliedAt, &item.CreatedAt); err != nil {
		return model.Inquiry{}, err
	}
	item.Status = enums.InquiryStatus(status)
	return item, nil
}
