package inquiries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	"github.com/johnlatif16/king-store-esport/internal/pkg/validate"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("inquiry not found")
	ErrReplyFailed = errors.New("reply email failed")
)

type Store interface {
	Create(ctx context.Context, inquiry model.Inquiry) (model.Inquiry, error)
	List(ctx context.Context) ([]model.Inquiry, error)
	Get(ctx context.Context, id int64) (model.Inquiry, error)
	MarkReplied(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Mailer is the synchronous email path used for replies.
type Mailer interface {
	SendEmailNow(ctx context.Context, kind notifysvc.Kind, msg notifysvc.EmailMessage) error
}

type Service struct {
	store    Store
	notifier notifysvc.Enqueuer
	mailer   Mailer
	now      func() time.Time
}

type SubmitInput struct {
	Name    string `json:"name" validate:"max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ReplyInput answers an inquiry. Email and Message default to the stored values.
type ReplyInput struct {
	InquiryID int64  `json:"inquiryId" validate:"required,gt=0"`
	Email     string `json:"email" validate:"omitempty,email"`
	Message   string `json:"message"`
	Reply     string `json:"reply" validate:"required,max=10000"`
}

func NewService(store Store, notifier notifysvc.Enqueuer, mailer Mailer) *Service {
	if notifier == nil {
		notifier = notifysvc.Discard{}
	}
	return &Service{
		store:    store,
		notifier: notifier,
		mailer:   mailer,
		now:      time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (model.Inquiry, error) {
	if s.store == nil {
		return model.Inquiry{}, fmt.Errorf("inquiry store is not configured")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := checkInput(in); err != nil {
		return model.Inquiry{}, err
	}

	created, err := s.store.Create(ctx, model.Inquiry{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
		Status:  enums.InquiryStatusPending,
	})
	if err != nil {
		return model.Inquiry{}, fmt.Errorf("create inquiry: %w", err)
	}

	s.notifier.Enqueue(ctx, notifysvc.NewInquiry(created))
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]model.Inquiry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("inquiry store is not configured")
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return items, nil
}

// Reply mails the customer and marks the inquiry replied. When the email fails
// the status stays pending.
func (s *Service) Reply(ctx context.Context, in ReplyInput) error {
	if s.store == nil || s.mailer == nil {
		return fmt.Errorf("inquiry reply is not configured")
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Reply = strings.TrimSpace(in.Reply)
	if err := checkInput(in); err != nil {
		return err
	}

	inquiry, err := s.store.Get(ctx, in.InquiryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load inquiry: %w", err)
	}

	to := inquiry.Email
	if in.Email != "" {
		to = in.Email
	}
	question := inquiry.Message
	if strings.TrimSpace(in.Message) != "" {
		question = in.Message
	}

	if err := s.mailer.SendEmailNow(ctx, notifysvc.KindInquiryReply, notifysvc.InquiryReply(to, question, in.Reply)); err != nil {
		return fmt.Errorf("%w: %w", ErrReplyFailed, err)
	}

	if err := s.store.MarkReplied(ctx, inquiry.ID, s.now().UTC()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("mark inquiry replied: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("inquiry store is not configured")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete inquiry: %w", err)
	}
	return nil
}

func checkInput(v any) error {
	if err := validate.Struct(v); err != nil {
		if fe, ok := validate.AsFieldError(err); ok {
			return fmt.Errorf("%w: %w", ErrValidation, fe)
		}
		return err
	}
	return nil
}
