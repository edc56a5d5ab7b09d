package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnlatif16/king-store-esport/internal/app/notifierapp"
	"github.com/johnlatif16/king-store-esport/internal/config"
	brokerinfra "github.com/johnlatif16/king-store-esport/internal/infra/broker"
	s3infra "github.com/johnlatif16/king-store-esport/internal/infra/s3"
	"github.com/johnlatif16/king-store-esport/internal/jobs/cleanup"
	pgrepo "github.com/johnlatif16/king-store-esport/internal/repo/postgres"
	redrepo "github.com/johnlatif16/king-store-esport/internal/repo/redis"
	adminauthsvc "github.com/johnlatif16/king-store-esport/internal/services/adminauth"
	broadcastsvc "github.com/johnlatif16/king-store-esport/internal/services/broadcast"
	cashiersvc "github.com/johnlatif16/king-store-esport/internal/services/cashier"
	inquiriessvc "github.com/johnlatif16/king-store-esport/internal/services/inquiries"
	mediasvc "github.com/johnlatif16/king-store-esport/internal/services/media"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
	orderssvc "github.com/johnlatif16/king-store-esport/internal/services/orders"
	ratesvc "github.com/johnlatif16/king-store-esport/internal/services/rate"
	suggestionssvc "github.com/johnlatif16/king-store-esport/internal/services/suggestions"
	"github.com/johnlatif16/king-store-esport/internal/transport/http/handlers"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	queue      *notifysvc.AsyncQueue
	publisher  *brokerinfra.Publisher
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	trusted, err := cfg.HTTP.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}
	r := chi.NewRouter()
	ApplyMiddlewares(r, log, cfg.HTTP.AllowedOrigins, trusted)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pgrepo.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redrepo.Ping(ctx, redisClient); err != nil {
		log.Warn("redis ping failed, admin sessions and rate limits degraded", zap.Error(err))
	}

	screenshots, err := newScreenshotStorage(ctx, cfg, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}

	dispatcher := notifierapp.NewDispatcher(cfg, log)
	queue := notifysvc.NewAsyncQueue(dispatcher, cfg.Notify.Workers, cfg.Notify.Buffer, log)
	queue.Start(ctx)

	var (
		notifier  notifysvc.Enqueuer = queue
		publisher *brokerinfra.Publisher
	)
	if cfg.Broker.URL != "" {
		p, err := brokerinfra.NewPublisher(brokerinfra.Config{URL: cfg.Broker.URL, Queue: cfg.Broker.Queue})
		if err != nil {
			log.Warn("broker init failed, delivering notifications in-process", zap.Error(err))
		} else {
			publisher = p
			notifier = notifysvc.NewBrokerQueue(p, queue, log)
		}
	}

	passwordHash, err := adminauthsvc.ResolvePasswordHash(cfg.Admin.PasswordHash, cfg.Admin.Password)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}
	if passwordHash == "" {
		log.Warn("admin password is not configured, admin login disabled")
	}

	orderRepo := pgrepo.NewOrderRepo(pool)
	inquiryRepo := pgrepo.NewInquiryRepo(pool)
	suggestionRepo := pgrepo.NewSuggestionRepo(pool)
	webhookEventRepo := pgrepo.NewWebhookEventRepo(pool)
	sessionRepo := redrepo.NewAdminSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	orderService := orderssvc.NewService(orderssvc.Dependencies{
		Store:       orderRepo,
		Screenshots: screenshots,
		Notifier:    notifier,
		Logger:      log,
	}, orderssvc.Config{
		RequireScreenshot:  cfg.Orders.RequireScreenshot,
		MaxScreenshotBytes: cfg.Orders.MaxScreenshotBytes,
	})
	inquiryService := inquiriessvc.NewService(inquiryRepo, notifier, dispatcher)
	suggestionService := suggestionssvc.NewService(suggestionRepo, notifier)
	broadcastService := broadcastsvc.NewService(dispatcher)
	adminAuthService := adminauthsvc.NewService(adminauthsvc.Config{
		Username:     cfg.Admin.Username,
		PasswordHash: passwordHash,
		TOTPSecret:   cfg.Admin.TOTPSecret,
		Secret:       cfg.Auth.SessionSecret,
		TTL:          cfg.Auth.SessionTTL,
	}, sessionRepo)
	cashierService := cashiersvc.NewService(cashiersvc.Config{
		Provider:      cfg.Cashier.Provider,
		WebhookSecret: cfg.Cashier.WebhookSecret,
	}, webhookEventRepo, orderService, log)
	go cleanup.NewWebhookEventCleanupJob(webhookEventRepo, cfg.Cashier.EventRetention, log).
		Loop(ctx, cfg.Cashier.CleanupInterval)
	rateLimiter := ratesvc.NewLimiter(rateRepo, map[ratesvc.Action]int{
		ratesvc.ActionSubmitOrder:      cfg.RateLimits.SubmitPerMinute,
		ratesvc.ActionSubmitInquiry:    cfg.RateLimits.SubmitPerMinute,
		ratesvc.ActionSubmitSuggestion: cfg.RateLimits.SubmitPerMinute,
		ratesvc.ActionAdminLogin:       cfg.RateLimits.LoginPerMinute,
	})

	RegisterRoutes(r, Dependencies{
		OrderService:      orderService,
		InquiryService:    inquiryService,
		SuggestionService: suggestionService,
		BroadcastService:  broadcastService,
		AdminAuthService:  adminAuthService,
		CashierService:    cashierService,
		RateLimiter:       rateLimiter,
		Cookie: handlers.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure || cfg.IsProduction(),
		},
		MaxScreenshotBytes: cfg.Orders.MaxScreenshotBytes,
		Logger:             log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		queue:      queue,
		publisher:  publisher,
		httpRouter: r,
	}, nil
}

func newScreenshotStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (mediasvc.Storage, error) {
	if cfg.Storage.Driver != "s3" {
		storage, err := mediasvc.NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("init local screenshot storage: %w", err)
		}
		return storage, nil
	}

	client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3: %w", err)
	}
	storage := mediasvc.NewS3Storage(client, cfg.S3.Bucket)
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Warn("s3 bucket check failed", zap.String("bucket", cfg.S3.Bucket), zap.Error(err))
	}
	return storage, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.queue != nil {
		if err := a.queue.Close(ctx); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
