package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	adminauthsvc "github.com/johnlatif16/king-store-esport/internal/services/adminauth"
	broadcastsvc "github.com/johnlatif16/king-store-esport/internal/services/broadcast"
	cashiersvc "github.com/johnlatif16/king-store-esport/internal/services/cashier"
	inquiriessvc "github.com/johnlatif16/king-store-esport/internal/services/inquiries"
	orderssvc "github.com/johnlatif16/king-store-esport/internal/services/orders"
	ratesvc "github.com/johnlatif16/king-store-esport/internal/services/rate"
	suggestionssvc "github.com/johnlatif16/king-store-esport/internal/services/suggestions"
	httperrors "github.com/johnlatif16/king-store-esport/internal/transport/http/errors"
	"github.com/johnlatif16/king-store-esport/internal/transport/http/handlers"
)

type Dependencies struct {
	OrderService       *orderssvc.Service
	InquiryService     *inquiriessvc.Service
	SuggestionService  *suggestionssvc.Service
	BroadcastService   *broadcastsvc.Service
	AdminAuthService   *adminauthsvc.Service
	CashierService     *cashiersvc.Service
	RateLimiter        *ratesvc.Limiter
	Cookie             handlers.CookieConfig
	MaxScreenshotBytes int64
	Logger             *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	log := deps.Logger
	ordersHandler := handlers.NewOrdersHandler(deps.OrderService, deps.MaxScreenshotBytes, log)
	inquiriesHandler := handlers.NewInquiriesHandler(deps.InquiryService, log)
	suggestionsHandler := handlers.NewSuggestionsHandler(deps.SuggestionService, log)
	messagesHandler := handlers.NewMessagesHandler(deps.BroadcastService, log)
	adminAuthHandler := handlers.NewAdminAuthHandler(deps.AdminAuthService, deps.Cookie, log)
	cashierHandler := handlers.NewCashierHandler(deps.CashierService, log)

	limit := func(action ratesvc.Action) func(http.Handler) http.Handler {
		return RateLimit(deps.RateLimiter, action, log)
	}

	r.Get("/api/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.With(limit(ratesvc.ActionSubmitOrder)).Post("/api/order", ordersHandler.Submit)
	r.With(limit(ratesvc.ActionSubmitInquiry)).Post("/api/inquiry", inquiriesHandler.Submit)
	r.With(limit(ratesvc.ActionSubmitSuggestion)).Post("/api/suggestion", suggestionsHandler.Submit)
	r.With(limit(ratesvc.ActionAdminLogin)).Post("/api/admin/login", adminAuthHandler.Login)
	r.Post("/api/cashier/webhook", cashierHandler.Webhook)

	r.Group(func(admin chi.Router) {
		admin.Use(adminAuthHandler.Gate)

		admin.Post("/api/admin/logout", adminAuthHandler.Logout)

		admin.Get("/api/admin/orders", ordersHandler.List)
		admin.Get("/api/admin/orders/{id}/screenshot", ordersHandler.Screenshot)
		admin.Delete("/api/admin/orders/{id}", ordersHandler.Delete)
		admin.Delete("/api/admin/delete-order", ordersHandler.DeleteLegacy)
		admin.Post("/api/admin/update-status", ordersHandler.UpdateStatus)

		admin.Get("/api/admin/inquiries", inquiriesHandler.List)
		admin.Delete("/api/admin/inquiries/{id}", inquiriesHandler.Delete)
		admin.Delete("/api/admin/delete-inquiry", inquiriesHandler.DeleteLegacy)
		admin.Post("/api/admin/reply-inquiry", inquiriesHandler.Reply)

		admin.Get("/api/admin/suggestions", suggestionsHandler.List)
		admin.Delete("/api/admin/suggestions/{id}", suggestionsHandler.Delete)
		admin.Delete("/api/admin/delete-suggestion", suggestionsHandler.DeleteLegacy)

		admin.Post("/api/admin/send-message", messagesHandler.Send)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.Write(w, http.StatusNotFound, httperrors.New("NOT_FOUND", "Not found"))
	})
}
