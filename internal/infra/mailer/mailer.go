package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	Timeout  time.Duration
}

// Client sends HTML mail through one SMTP account. The account address is also
// the From address.
type Client struct {
	cfg  Config
	dial func(ctx context.Context, msg *mail.Msg) error
}

func New(cfg Config) (*Client, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Username = strings.TrimSpace(cfg.Username)
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("smtp user is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	c := &Client{cfg: cfg}
	c.dial = c.dialAndSend
	return c, nil
}

func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	msg, err := c.buildMessage(to, subject, html)
	if err != nil {
		return err
	}
	return c.dial(ctx, msg)
}

func (c *Client) buildMessage(to, subject, html string) (*mail.Msg, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("mail recipient is required")
	}

	msg := mail.NewMsg()
	if strings.TrimSpace(c.cfg.FromName) != "" {
		if err := msg.FromFormat(c.cfg.FromName, c.cfg.Username); err != nil {
			return nil, fmt.Errorf("set mail from: %w", err)
		}
	} else if err := msg.From(c.cfg.Username); err != nil {
		return nil, fmt.Errorf("set mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set mail recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)
	return msg, nil
}

func (c *Client) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(c.cfg.Host,
		mail.WithPort(c.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.cfg.Username),
		mail.WithPassword(c.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(c.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("dial and send: %w", err)
	}
	return nil
}
