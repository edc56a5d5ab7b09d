package dto

import "time"

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

type AdminLoginResponse struct {
	Success   bool      `json:"success"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CashierWebhookResponse struct {
	Success    bool  `json:"success"`
	Idempotent bool  `json:"idempotent,omitempty"`
	Ignored    bool  `json:"ignored,omitempty"`
	OrderID    int64 `json:"order_id,omitempty"`
}
