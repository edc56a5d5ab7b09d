package notify

import "context"

type Kind string

const (
	KindNewOrder      Kind = "new_order"
	KindOrderStatus   Kind = "order_status"
	KindNewInquiry    Kind = "new_inquiry"
	KindNewSuggestion Kind = "new_suggestion"
	KindInquiryReply  Kind = "inquiry_reply"
	KindBroadcast     Kind = "broadcast"
)

// EmailMessage is one outbound mail. An empty To means the staff inbox.
type EmailMessage struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type ChatMessage struct {
	Text string `json:"text"`
}

// Notification is a value describing every delivery an event wants. It is safe
// to serialize and hand to another process.
type Notification struct {
	Kind   Kind           `json:"kind"`
	Emails []EmailMessage `json:"emails,omitempty"`
	Chat   *ChatMessage   `json:"chat,omitempty"`
}

// Enqueuer accepts notifications for background delivery. It never fails the caller.
type Enqueuer interface {
	Enqueue(ctx context.Context, n Notification)
}

// EmailChannel and ChatChannel are the per-channel delivery methods.
type EmailChannel interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

type ChatChannel interface {
	SendChat(ctx context.Context, msg ChatMessage) error
}

// Discard drops every notification. Useful where delivery is not wanted.
type Discard struct{}

func (Discard) Enqueue(context.Context, Notification) {}
