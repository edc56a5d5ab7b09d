// Package broker moves opaque JSON payloads through one durable RabbitMQ queue.
package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Config struct {
	URL   string
	Queue string
}

func (c Config) validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("broker url is required")
	}
	if strings.TrimSpace(c.Queue) == "" {
		return fmt.Errorf("broker queue is required")
	}
	return nil
}

func dial(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(dialTimeout),
	})
}

func declare(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}

const (
	dialTimeout   = 3 * time.Second
	redialBackoff = 2 * time.Second
)

// ErrUnavailable is returned by Publish while no channel is open.
var ErrUnavailable = errors.New("broker is unavailable")

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Publisher keeps one channel open. Connecting happens in the background, so
// Publish never waits for a dial: without an open channel it fails fast with
// ErrUnavailable and schedules a redial.
type Publisher struct {
	cfg  Config
	open func() (publishChannel, io.Closer, error)
	now  func() time.Time

	mu       sync.Mutex
	ch       publishChannel
	conn     io.Closer
	dialing  bool
	closed   bool
	nextDial time.Time
}

func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p := &Publisher{cfg: cfg, now: time.Now}
	p.open = p.dialChannel
	p.mu.Lock()
	p.redialLocked()
	p.mu.Unlock()
	return p, nil
}

func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	ch := p.ch
	if ch == nil || ch.IsClosed() {
		p.resetLocked()
		p.redialLocked()
		p.mu.Unlock()
		return ErrUnavailable
	}
	p.mu.Unlock()

	err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.mu.Lock()
		if p.ch == ch {
			p.resetLocked()
			p.redialLocked()
		}
		p.mu.Unlock()
		return fmt.Errorf("publish to %s: %w", p.cfg.Queue, err)
	}
	return nil
}

func (p *Publisher) redialLocked() {
	if p.dialing || p.closed || p.now().Before(p.nextDial) {
		return
	}
	p.dialing = true
	go p.connect()
}

func (p *Publisher) connect() {
	ch, conn, err := p.open()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.nextDial = p.now().Add(redialBackoff)
		return
	}
	if p.closed {
		_ = ch.Close()
		_ = conn.Close()
		return
	}
	p.ch = ch
	p.conn = conn
}

func (p *Publisher) dialChannel() (publishChannel, io.Closer, error) {
	conn, err := dial(p.cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("channel open: %w", err)
	}
	if err := declare(ch, p.cfg.Queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn, nil
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.resetLocked()
	return nil
}

// Handler processes one message body. A returned error rejects the message
// without requeue.
type Handler func(ctx context.Context, body []byte) error

var errDeliveriesClosed = errors.New("deliveries channel closed")

type Consumer struct {
	cfg      Config
	prefetch int
	log      *zap.Logger
}

func NewConsumer(cfg Config, prefetch int, log *zap.Logger) (*Consumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = 16
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{cfg: cfg, prefetch: prefetch, log: log}, nil
}

// Run consumes until ctx is cancelled, redialing with exponential backoff.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	if handle == nil {
		return fmt.Errorf("broker handler is nil")
	}

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := dial(c.cfg.URL)
		if err != nil {
			c.log.Warn("broker dial failed", zap.Duration("retry_in", backoff), zap.Error(err))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("broker consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn("broker set qos failed", zap.Error(err))
	}
	if err := declare(ch, c.cfg.Queue); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			if err := handle(ctx, d.Body); err != nil {
				c.log.Warn("broker message rejected", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
