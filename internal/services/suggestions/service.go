package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	"github.com/johnlatif16/king-store-esport/internal/pkg/validate"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("suggestion not found")
)

type Store interface {
	Create(ctx context.Context, suggestion model.Suggestion) (model.Suggestion, error)
	List(ctx context.Context) ([]model.Suggestion, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store    Store
	notifier notifysvc.Enqueuer
}

type SubmitInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Contact string `json:"contact" validate:"required,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

func NewService(store Store, notifier notifysvc.Enqueuer) *Service {
	if notifier == nil {
		notifier = notifysvc.Discard{}
	}
	return &Service{store: store, notifier: notifier}
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (model.Suggestion, error) {
	if s.store == nil {
		return model.Suggestion{}, fmt.Errorf("suggestion store is not configured")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Message = strings.TrimSpace(in.Message)
	if err := validate.Struct(in); err != nil {
		if fe, ok := validate.AsFieldError(err); ok {
			return model.Suggestion{}, fmt.Errorf("%w: %w", ErrValidation, fe)
		}
		return model.Suggestion{}, err
	}

	created, err := s.store.Create(ctx, model.Suggestion{
		Name:    in.Name,
		Contact: in.Contact,
		Message: in.Message,
	})
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("create suggestion: %w", err)
	}

	s.notifier.Enqueue(ctx, notifysvc.NewSuggestion(created))
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]model.Suggestion, error) {
	if s.store == nil {
		return nil, fmt.Errorf("suggestion store is not configured")
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return items, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("suggestion store is not configured")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete suggestion: %w", err)
	}
	return nil
}
