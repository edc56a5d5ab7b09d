package dto

import (
	"time"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
)

type InquiryResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	StatusLabel string     `json:"statusLabel"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type InquiriesListResponse struct {
	Success bool              `json:"success"`
	Data    []InquiryResponse `json:"data"`
}

type ReplyInquiryRequest struct {
	InquiryID ID     `json:"inquiryId"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Reply     string `json:"reply"`
}

type SuggestionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type SuggestionsListResponse struct {
	Success bool                 `json:"success"`
	Data    []SuggestionResponse `json:"data"`
}

type SendMessageRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func NewInquiryResponse(i model.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:          i.ID,
		Name:        i.Name,
		Email:       i.Email,
		Message:     i.Message,
		Status:      string(i.Status),
		StatusLabel: i.Status.Label(),
		RepliedAt:   i.RepliedAt,
		CreatedAt:   i.CreatedAt,
	}
}

func NewSuggestionResponse(s model.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Message:   s.Message,
		CreatedAt: s.CreatedAt,
	}
}
