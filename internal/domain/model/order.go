package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
)

type Order struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	PlayerID      string             `json:"playerId"`
	Email         string             `json:"email"`
	Type          enums.PurchaseType `json:"type"`
	UCAmount      string             `json:"ucAmount,omitempty"`
	Bundle        string             `json:"bundle,omitempty"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	TransactionID string             `json:"transactionId"`
	ScreenshotKey *string            `json:"-"`
	Status        enums.OrderStatus  `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Selection is the UC amount or the bundle name, whichever the order carries.
func (o Order) Selection() string {
	if o.Type == enums.PurchaseTypeBundle {
		return o.Bundle
	}
	return o.UCAmount
}

func (o Order) HasScreenshot() bool {
	return o.ScreenshotKey != nil && *o.ScreenshotKey != ""
}
