package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	suggestionssvc "github.com/johnlatif16/king-store-esport/internal/services/suggestions"
)

type SuggestionRepo struct {
	pool *pgxpool.Pool
}

func NewSuggestionRepo(pool *pgxpool.Pool) *SuggestionRepo {
	return &SuggestionRepo{pool: pool}
}

func (r *SuggestionRepo) Create(ctx context.Context, suggestion model.Suggestion) (model.Suggestion, error) {
	if r.pool == nil {
		return model.Suggestion{}, fmt.Errorf("postgres pool is nil")
	}

	created := suggestion
	err := r.pool.QueryRow(ctx, `
INSERT INTO suggestions (name, contact, message, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, created_at
`, suggestion.Name, suggestion.Contact, suggestion.Message).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("insert suggestion: %w", err)
	}
	return created, nil
}

func (r *SuggestionRepo) List(ctx context.Context) ([]model.Suggestion, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, contact, message, created_at
FROM suggestions
ORDER BY id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	items := make([]model.Suggestion, 0)
	for rows.Next() {
		var item model.Suggestion
		if err := rows.Scan(&item.ID, &item.Name, &item.Contact, &item.Message, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return items, nil
}

func (r *SuggestionRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM suggestions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return suggestionssvc.ErrNotFound
	}
	return nil
}
