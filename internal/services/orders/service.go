package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	"github.com/johnlatif16/king-store-esport/internal/pkg/validate"
	mediasvc "github.com/johnlatif16/king-store-esport/internal/services/media"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrScreenshotRequired = errors.New("screenshot required")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrNotFound           = errors.New("order not found")
	ErrNoScreenshot       = errors.New("order has no screenshot")
)

const defaultMaxScreenshotBytes = 5 << 20

type Store interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	Get(ctx context.Context, id int64) (model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) (model.Order, error)
	Delete(ctx context.Context, id int64) (model.Order, error)
}

type Dependencies struct {
	Store       Store
	Screenshots mediasvc.Storage
	Notifier    notifysvc.Enqueuer
	Logger      *zap.Logger
}

type Config struct {
	RequireScreenshot  bool
	MaxScreenshotBytes int64
}

type Service struct {
	store       Store
	screenshots mediasvc.Storage
	notifier    notifysvc.Enqueuer
	log         *zap.Logger
	cfg         Config
	now         func() time.Time
}

// SubmitInput is a customer order after decoding. Exactly one of UCAmount and
// Bundle must be set.
type SubmitInput struct {
	Name          string           `json:"name" validate:"required,max=120"`
	PlayerID      string           `json:"playerId" validate:"required,max=64"`
	Email         string           `json:"email" validate:"required,email,max=254"`
	UCAmount      string           `json:"ucAmount" validate:"required_without=Bundle,excluded_with=Bundle,max=32"`
	Bundle        string           `json:"bundle" validate:"max=120"`
	TotalAmount   string           `json:"totalAmount" validate:"required,money"`
	TransactionID string           `json:"transactionId" validate:"required,max=128"`
	Screenshot    *mediasvc.Upload `json:"-"`
}

func (in *SubmitInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.PlayerID = strings.TrimSpace(in.PlayerID)
	in.Email = strings.TrimSpace(in.Email)
	in.UCAmount = strings.TrimSpace(in.UCAmount)
	in.Bundle = strings.TrimSpace(in.Bundle)
	in.TotalAmount = strings.TrimSpace(in.TotalAmount)
	in.TransactionID = strings.TrimSpace(in.TransactionID)
}

// Screenshot is an order screenshot ready to stream.
type Screenshot = mediasvc.Object

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MaxScreenshotBytes <= 0 {
		cfg.MaxScreenshotBytes = defaultMaxScreenshotBytes
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notifysvc.Discard{}
	}
	return &Service{
		store:       deps.Store,
		screenshots: deps.Screenshots,
		notifier:    notifier,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Submit validates the order, stores the screenshot, then inserts the row. A
// failed insert removes the stored screenshot.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (model.Order, error) {
	if s.store == nil {
		return model.Order{}, fmt.Errorf("order store is not configured")
	}

	in.normalize()
	if err := validate.Struct(in); err != nil {
		if fe, ok := validate.AsFieldError(err); ok {
			return model.Order{}, fmt.Errorf("%w: %w", ErrValidation, fe)
		}
		return model.Order{}, err
	}
	amount, err := decimal.NewFromString(in.TotalAmount)
	if err != nil {
		return model.Order{}, fmt.Errorf("%w: totalAmount", ErrValidation)
	}

	var image *mediasvc.Image
	if in.Screenshot != nil {
		img, err := mediasvc.Inspect(*in.Screenshot, s.cfg.MaxScreenshotBytes)
		if err != nil {
			return model.Order{}, err
		}
		image = &img
	} else if s.cfg.RequireScreenshot {
		return model.Order{}, ErrScreenshotRequired
	}

	order := model.Order{
		Name:          in.Name,
		PlayerID:      in.PlayerID,
		Email:         in.Email,
		Type:          enums.PurchaseTypeUC,
		UCAmount:      in.UCAmount,
		Bundle:        in.Bundle,
		TotalAmount:   amount,
		TransactionID: in.TransactionID,
		Status:        enums.OrderStatusPendingPayment,
	}
	if in.Bundle != "" {
		order.Type = enums.PurchaseTypeBundle
	}

	if image != nil {
		if s.screenshots == nil {
			return model.Order{}, fmt.Errorf("screenshot storage is not configured")
		}
		key, err := mediasvc.ObjectKey(image.ContentType, s.now())
		if err != nil {
			return model.Order{}, err
		}
		if err := s.screenshots.Put(ctx, key, image.Body, image.Size, image.ContentType); err != nil {
			if errors.Is(err, mediasvc.ErrFileTooLarge) {
				return model.Order{}, err
			}
			return model.Order{}, fmt.Errorf("store screenshot: %w", err)
		}
		order.ScreenshotKey = &key
	}

	created, err := s.store.Create(ctx, order)
	if err != nil {
		if order.ScreenshotKey != nil {
			if delErr := s.screenshots.Delete(context.WithoutCancel(ctx), *order.ScreenshotKey); delErr != nil {
				s.log.Error("remove orphaned screenshot",
					zap.String("key", *order.ScreenshotKey),
					zap.Error(delErr),
				)
			}
		}
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.notifier.Enqueue(ctx, notifysvc.NewOrder(created))
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]model.Order, error) {
	if s.store == nil {
		return nil, fmt.Errorf("order store is not configured")
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.Order, error) {
	if id <= 0 {
		return model.Order{}, ErrValidation
	}
	if s.store == nil {
		return model.Order{}, fmt.Errorf("order store is not configured")
	}
	return s.store.Get(ctx, id)
}

// UpdateStatus accepts either a status code or its Arabic label. Any status may
// replace any other.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string) (model.Order, error) {
	if id <= 0 {
		return model.Order{}, ErrValidation
	}
	status, ok := enums.ParseOrderStatus(rawStatus)
	if !ok {
		return model.Order{}, ErrInvalidStatus
	}
	return s.applyStatus(ctx, id, status)
}

// ApplyPaymentResult is the gateway path for status changes.
func (s *Service) ApplyPaymentResult(ctx context.Context, id int64, status enums.OrderStatus) (model.Order, error) {
	if id <= 0 || !status.Valid() {
		return model.Order{}, ErrValidation
	}
	return s.applyStatus(ctx, id, status)
}

func (s *Service) applyStatus(ctx context.Context, id int64, status enums.OrderStatus) (model.Order, error) {
	if s.store == nil {
		return model.Order{}, fmt.Errorf("order store is not configured")
	}
	updated, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Order{}, ErrNotFound
		}
		return model.Order{}, fmt.Errorf("update order status: %w", err)
	}

	s.notifier.Enqueue(ctx, notifysvc.OrderStatusChanged(updated))
	return updated, nil
}

// Delete removes the row, then the screenshot. A failed screenshot removal is
// logged only.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("order store is not configured")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}

	if deleted.HasScreenshot() && s.screenshots != nil {
		if err := s.screenshots.Delete(ctx, *deleted.ScreenshotKey); err != nil {
			s.log.Warn("remove order screenshot",
				zap.Int64("order_id", id),
				zap.String("key", *deleted.ScreenshotKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

// OpenScreenshot returns the stored screenshot. The caller closes Body.
func (s *Service) OpenScreenshot(ctx context.Context, id int64) (Screenshot, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return Screenshot{}, err
	}
	if !order.HasScreenshot() {
		return Screenshot{}, ErrNoScreenshot
	}
	if s.screenshots == nil {
		return Screenshot{}, fmt.Errorf("screenshot storage is not configured")
	}
	obj, err := s.screenshots.Open(ctx, *order.ScreenshotKey)
	if err != nil {
		if errors.Is(err, mediasvc.ErrObjectNotFound) {
			return Screenshot{}, mediasvc.ErrObjectNotFound
		}
		return Screenshot{}, fmt.Errorf("open screenshot: %w", err)
	}
	return obj, nil
}

// ScreenshotURL is the admin-only path that streams an order screenshot.
func ScreenshotURL(o model.Order) *string {
	if !o.HasScreenshot() {
		return nil
	}
	u := fmt.Sprintf("/api/admin/orders/%d/screenshot", o.ID)
	return &u
}
