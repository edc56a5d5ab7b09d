package model

import (
	"time"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
)

type Inquiry struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Message   string              `json:"message"`
	Status    enums.InquiryStatus `json:"status"`
	RepliedAt *time.Time          `json:"repliedAt,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

type Suggestion struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
