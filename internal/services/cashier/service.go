package cashier

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	orderssvc "github.com/johnlatif16/king-store-esport/internal/services/orders"
)

const SignatureHeader = "X-Cashier-Signature"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrOrderNotFound    = errors.New("webhook order not found")
	ErrWebhookDisabled  = errors.New("cashier webhook secret is not configured")
)

type EventStore interface {
	Exists(ctx context.Context, provider, eventID string) (bool, error)
	// MarkProcessed returns false when the event was already recorded.
	MarkProcessed(ctx context.Context, event model.WebhookEvent) (bool, error)
}

type PaymentApplier interface {
	ApplyPaymentResult(ctx context.Context, id int64, status enums.OrderStatus) (model.Order, error)
}

type Config struct {
	Provider      string
	WebhookSecret string
}

type Service struct {
	provider string
	secret   []byte
	events   EventStore
	orders   PaymentApplier
	log      *zap.Logger
	now      func() time.Time
}

type Result struct {
	Idempotent bool
	Ignored    bool
	Order      *model.Order
}

type event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			Status   string `json:"status"`
			Metadata struct {
				OrderID flexibleID `json:"order_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// flexibleID accepts both 42 and "42".
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(raw []byte) error {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("order_id: %w", err)
	}
	*f = flexibleID(v)
	return nil
}

func NewService(cfg Config, events EventStore, orders PaymentApplier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" {
		provider = "cashier"
	}
	return &Service{
		provider: provider,
		secret:   []byte(strings.TrimSpace(cfg.WebhookSecret)),
		events:   events,
		orders:   orders,
		log:      log,
		now:      time.Now,
	}
}

// VerifySignature fails closed: without a configured secret every event is
// rejected with ErrWebhookDisabled.
func (s *Service) VerifySignature(body []byte, signature string) error {
	if len(s.secret) == 0 {
		return ErrWebhookDisabled
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Handle verifies and applies one gateway event exactly once.
func (s *Service) Handle(ctx context.Context, body []byte, signature string) (Result, error) {
	if s.events == nil || s.orders == nil {
		return Result{}, fmt.Errorf("cashier webhook is not configured")
	}
	if err := s.VerifySignature(body, signature); err != nil {
		return Result{}, err
	}

	var ev event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	ev.ID = strings.TrimSpace(ev.ID)
	if ev.ID == "" {
		return Result{}, fmt.Errorf("%w: event id is required", ErrInvalidPayload)
	}

	seen, err := s.events.Exists(ctx, s.provider, ev.ID)
	if err != nil {
		return Result{}, fmt.Errorf("check webhook event: %w", err)
	}
	if seen {
		return Result{Idempotent: true}, nil
	}

	record := model.WebhookEvent{
		Provider:    s.provider,
		EventID:     ev.ID,
		EventType:   strings.TrimSpace(ev.Type),
		OrderID:     int64(ev.Data.Object.Metadata.OrderID),
		ProcessedAt: s.now().UTC(),
	}

	status, ok := paymentStatus(ev.Type, ev.Data.Object.Status)
	if !ok {
		if _, err := s.events.MarkProcessed(ctx, record); err != nil {
			return Result{}, fmt.Errorf("mark webhook event: %w", err)
		}
		s.log.Info("cashier webhook ignored", zap.String("event_id", ev.ID), zap.String("type", ev.Type))
		return Result{Ignored: true}, nil
	}
	if record.OrderID <= 0 {
		return Result{}, fmt.Errorf("%w: order_id is required", ErrInvalidPayload)
	}

	order, err := s.orders.ApplyPaymentResult(ctx, record.OrderID, status)
	if err != nil {
		if errors.Is(err, orderssvc.ErrNotFound) {
			return Result{}, ErrOrderNotFound
		}
		return Result{}, fmt.Errorf("apply payment result: %w", err)
	}

	inserted, err := s.events.MarkProcessed(ctx, record)
	if err != nil {
		return Result{}, fmt.Errorf("mark webhook event: %w", err)
	}
	s.log.Info("cashier webhook applied",
		zap.String("event_id", ev.ID),
		zap.Int64("order_id", order.ID),
		zap.String("status", string(order.Status)),
	)
	return Result{Idempotent: !inserted, Order: &order}, nil
}

func paymentStatus(eventType, objectStatus string) (enums.OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "payment.succeeded":
		return enums.OrderStatusPaid, true
	case "payment.failed":
		return enums.OrderStatusFailed, true
	}
	switch strings.ToLower(strings.TrimSpace(objectStatus)) {
	case "succeeded", "paid":
		return enums.OrderStatusPaid, true
	case "failed", "canceled", "cancelled":
		return enums.OrderStatusFailed, true
	}
	return "", false
}
