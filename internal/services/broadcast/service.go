package broadcast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnlatif16/king-store-esport/internal/pkg/validate"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
)

var (
	ErrValidation = errors.New("validation error")
	ErrSendFailed = errors.New("send message failed")
)

type Mailer interface {
	SendEmailNow(ctx context.Context, kind notifysvc.Kind, msg notifysvc.EmailMessage) error
}

type Service struct {
	mailer Mailer
}

// Input is a free-form staff email to one address.
type Input struct {
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=10000"`
}

func NewService(mailer Mailer) *Service {
	return &Service{mailer: mailer}
}

func (s *Service) Send(ctx context.Context, in Input) error {
	if s.mailer == nil {
		return fmt.Errorf("%w: mailer is not configured", ErrSendFailed)
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validate.Struct(in); err != nil {
		if fe, ok := validate.AsFieldError(err); ok {
			return fmt.Errorf("%w: %w", ErrValidation, fe)
		}
		return err
	}

	msg := notifysvc.Broadcast(in.Email, in.Subject, in.Message)
	if err := s.mailer.SendEmailNow(ctx, notifysvc.KindBroadcast, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}
