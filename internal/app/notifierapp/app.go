package notifierapp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnlatif16/king-store-esport/internal/config"
	brokerinfra "github.com/johnlatif16/king-store-esport/internal/infra/broker"
	mailerinfra "github.com/johnlatif16/king-store-esport/internal/infra/mailer"
	tginfra "github.com/johnlatif16/king-store-esport/internal/infra/telegram"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
)

// NewDispatcher wires the email and Telegram channels that are configured. A
// channel that fails to initialize is disabled with a warning.
func NewDispatcher(cfg config.Config, log *zap.Logger) *notifysvc.Dispatcher {
	var email notifysvc.EmailChannel
	if cfg.SMTP.Enabled() {
		client, err := mailerinfra.New(mailerinfra.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			FromName: cfg.SMTP.FromName,
			Timeout:  cfg.Notify.DeliveryTimeout,
		})
		if err != nil {
			log.Warn("smtp init failed, email notifications disabled", zap.Error(err))
		} else {
			email = notifysvc.NewEmailChannel(client)
		}
	} else {
		log.Warn("smtp is not configured, email notifications disabled")
	}

	var chat notifysvc.ChatChannel
	if cfg.Telegram.Enabled() {
		bot, err := tginfra.NewBot(cfg.Telegram.Token)
		if err != nil {
			log.Warn("telegram init failed, chat notifications disabled", zap.Error(err))
		} else {
			chat = notifysvc.NewTelegramChannel(bot, cfg.Telegram.ChatID)
		}
	} else {
		log.Warn("telegram is not configured, chat notifications disabled")
	}

	return notifysvc.NewDispatcher(email, chat, notifysvc.Config{
		StaffInbox:      cfg.SMTP.StaffInbox(),
		DeliveryTimeout: cfg.Notify.DeliveryTimeout,
	}, log)
}

// App consumes queued notifications from the broker and delivers them.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	consumer   *brokerinfra.Consumer
	dispatcher *notifysvc.Dispatcher
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	dispatcher := NewDispatcher(cfg, log)

	prefetch := cfg.Notify.Workers
	if prefetch <= 0 {
		prefetch = 1
	}
	consumer, err := brokerinfra.NewConsumer(brokerinfra.Config{
		URL:   cfg.Broker.URL,
		Queue: cfg.Broker.Queue,
	}, prefetch, log)
	if err != nil {
		return nil, fmt.Errorf("init broker consumer: %w", err)
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		consumer:   consumer,
		dispatcher: dispatcher,
	}, nil
}

// Run blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("notifier started", zap.String("queue", a.cfg.Broker.Queue))
	return a.consumer.Run(ctx, notifysvc.MessageHandler(a.dispatcher))
}
