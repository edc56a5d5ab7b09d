package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	adminauthsvc "github.com/johnlatif16/king-store-esport/internal/services/adminauth"
	"github.com/johnlatif16/king-store-esport/internal/transport/http/dto"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type AdminAuthHandler struct {
	service *adminauthsvc.Service
	cookie  CookieConfig
	log     *zap.Logger
}

func NewAdminAuthHandler(service *adminauthsvc.Service, cookie CookieConfig, log *zap.Logger) *AdminAuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if cookie.Name == "" {
		cookie.Name = "ks_admin"
	}
	return &AdminAuthHandler{service: service, cookie: cookie, log: log}
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.service.IsConfigured() {
		writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", msgServerError)
		return
	}

	var req dto.AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUnauthorized(w, "INVALID_CREDENTIALS", msgBadCredentials)
		return
	}

	res, err := h.service.Login(r.Context(), adminauthsvc.LoginInput{
		Username: req.Username,
		Password: req.Password,
		OTP:      req.OTP,
	})
	if err != nil {
		if errors.Is(err, adminauthsvc.ErrInvalidCredentials) {
			writeUnauthorized(w, "INVALID_CREDENTIALS", msgBadCredentials)
			return
		}
		h.log.Error("admin login", zap.Error(err))
		writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", msgServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie(res.Token, res.ExpiresAt))
	writeOK(w, dto.AdminLoginResponse{Success: true, ExpiresAt: res.ExpiresAt})
}

func (h *AdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.log.Error("admin logout", zap.Error(err))
			writeInternal(w, "LOGOUT_FAILED", msgServerError)
			return
		}
	}

	expired := h.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	writeOK(w, dto.SuccessResponse{Success: true})
}

// Gate rejects requests without a live admin session with 403.
func (h *AdminAuthHandler) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookie.Name)
		if err != nil || cookie.Value == "" {
			writeForbidden(w)
			return
		}
		session, err := h.service.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, adminauthsvc.ErrUnauthorized) {
				h.log.Warn("admin session check failed", zap.Error(err))
			}
			writeForbidden(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(adminauthsvc.WithSession(r.Context(), session)))
	})
}

func (h *AdminAuthHandler) sessionCookie(value string, expiresAt time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookie.Secure,
	}
	if value != "" {
		cookie.MaxAge = int(time.Until(expiresAt).Seconds())
	}
	if h.cookie.Secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

// adminField names the admin behind a gated request in audit logs.
func adminField(r *http.Request) zap.Field {
	session, _ := adminauthsvc.SessionFromContext(r.Context())
	return zap.String("admin", session.Username)
}
