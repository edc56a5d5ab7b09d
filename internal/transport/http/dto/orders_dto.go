package dto

import (
	"time"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	orderssvc "github.com/johnlatif16/king-store-esport/internal/services/orders"
)

type OrderResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	PlayerID      string    `json:"playerId"`
	Email         string    `json:"email"`
	Type          string    `json:"type"`
	UCAmount      string    `json:"ucAmount"`
	Bundle        string    `json:"bundle"`
	TotalAmount   string    `json:"totalAmount"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	StatusLabel   string    `json:"statusLabel"`
	ScreenshotURL *string   `json:"screenshotUrl"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrdersListResponse struct {
	Success bool            `json:"success"`
	Data    []OrderResponse `json:"data"`
}

// SubmitOrderRequest is the JSON order body. Numeric fields may arrive as
// numbers or strings.
type SubmitOrderRequest struct {
	Name          Text `json:"name"`
	PlayerID      Text `json:"playerId"`
	Email         Text `json:"email"`
	UCAmount      Text `json:"ucAmount"`
	Bundle        Text `json:"bundle"`
	TotalAmount   Text `json:"totalAmount"`
	TransactionID Text `json:"transactionId"`
}

type UpdateStatusRequest struct {
	ID     ID     `json:"id"`
	Status string `json:"status"`
}

type OrderStatusResponse struct {
	Success bool          `json:"success"`
	Order   OrderResponse `json:"order"`
}

func NewOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		Name:          o.Name,
		PlayerID:      o.PlayerID,
		Email:         o.Email,
		Type:          string(o.Type),
		UCAmount:      o.UCAmount,
		Bundle:        o.Bundle,
		TotalAmount:   o.TotalAmount.StringFixed(2),
		TransactionID: o.TransactionID,
		Status:        string(o.Status),
		StatusLabel:   o.Status.Label(),
		ScreenshotURL: orderssvc.ScreenshotURL(o),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
