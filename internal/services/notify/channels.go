package notify

import (
	"context"
	"fmt"
)

type MailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type TextSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

type mailChannel struct {
	sender MailSender
}

// NewEmailChannel adapts an SMTP client to EmailChannel. A nil sender yields nil.
func NewEmailChannel(sender MailSender) EmailChannel {
	if sender == nil {
		return nil
	}
	return mailChannel{sender: sender}
}

func (c mailChannel) SendEmail(ctx context.Context, msg EmailMessage) error {
	if err := c.sender.Send(ctx, msg.To, msg.Subject, msg.HTML); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type telegramChannel struct {
	sender TextSender
	chatID int64
}

// NewTelegramChannel posts chat notifications to one staff chat. A nil sender or
// zero chat id yields nil.
func NewTelegramChannel(sender TextSender, chatID int64) ChatChannel {
	if sender == nil || chatID == 0 {
		return nil
	}
	return telegramChannel{sender: sender, chatID: chatID}
}

func (c telegramChannel) SendChat(ctx context.Context, msg ChatMessage) error {
	if err := c.sender.SendText(ctx, c.chatID, msg.Text); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
