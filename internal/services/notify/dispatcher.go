package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrChannelDisabled = errors.New("notification channel is not configured")

const defaultDeliveryTimeout = 15 * time.Second

type Config struct {
	StaffInbox      string
	DeliveryTimeout time.Duration
}

// Dispatcher attempts each configured channel once. Channel errors are logged and
// counted, never returned, except from SendEmailNow.
type Dispatcher struct {
	email      EmailChannel
	chat       ChatChannel
	staffInbox string
	timeout    time.Duration
	log        *zap.Logger
}

// NewDispatcher accepts nil channels; those deliveries are skipped.
func NewDispatcher(email EmailChannel, chat ChatChannel, cfg Config, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = defaultDeliveryTimeout
	}
	return &Dispatcher{
		email:      email,
		chat:       chat,
		staffInbox: strings.TrimSpace(cfg.StaffInbox),
		timeout:    cfg.DeliveryTimeout,
		log:        log,
	}
}

func (d *Dispatcher) Deliver(ctx context.Context, n Notification) {
	for _, msg := range n.Emails {
		err := d.SendEmail(ctx, msg)
		if errors.Is(err, ErrChannelDisabled) {
			continue
		}
		observe(n.Kind, "email", err)
		if err != nil {
			d.log.Warn("notification email failed",
				zap.String("kind", string(n.Kind)),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}

	if n.Chat != nil && d.chat != nil {
		err := d.SendChat(ctx, *n.Chat)
		observe(n.Kind, "telegram", err)
		if err != nil {
			d.log.Warn("notification chat failed",
				zap.String("kind", string(n.Kind)),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) SendEmail(ctx context.Context, msg EmailMessage) error {
	if d.email == nil {
		return ErrChannelDisabled
	}
	if strings.TrimSpace(msg.To) == "" {
		msg.To = d.staffInbox
	}
	if strings.TrimSpace(msg.To) == "" {
		return ErrChannelDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.email.SendEmail(ctx, msg)
}

func (d *Dispatcher) SendChat(ctx context.Context, msg ChatMessage) error {
	if d.chat == nil {
		return ErrChannelDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.chat.SendChat(ctx, msg)
}

// SendEmailNow delivers synchronously and reports the outcome to the caller.
func (d *Dispatcher) SendEmailNow(ctx context.Context, kind Kind, msg EmailMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("email recipient is required")
	}
	err := d.SendEmail(ctx, msg)
	observe(kind, "email", err)
	if err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	return nil
}
