package model

import "time"

type AdminSession struct {
	SID       string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type WebhookEvent struct {
	Provider    string
	EventID     string
	EventType   string
	OrderID     int64
	ProcessedAt time.Time
}
