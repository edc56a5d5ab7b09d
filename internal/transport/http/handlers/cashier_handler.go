package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	cashiersvc "github.com/johnlatif16/king-store-esport/internal/services/cashier"
	"github.com/johnlatif16/king-store-esport/internal/transport/http/dto"
	httperrors "github.com/johnlatif16/king-store-esport/internal/transport/http/errors"
)

const maxWebhookBody = 1 << 20

type CashierHandler struct {
	service *cashiersvc.Service
	log     *zap.Logger
}

func NewCashierHandler(service *cashiersvc.Service, log *zap.Logger) *CashierHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CashierHandler{service: service, log: log}
}

func (h *CashierHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CASHIER_UNAVAILABLE", msgServerError)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgInvalidRequest)
		return
	}

	res, err := h.service.Handle(r.Context(), body, r.Header.Get(cashiersvc.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, cashiersvc.ErrWebhookDisabled):
			httperrors.Write(w, http.StatusServiceUnavailable, httperrors.New("WEBHOOK_DISABLED", msgServerError))
		case errors.Is(err, cashiersvc.ErrInvalidSignature):
			writeUnauthorized(w, "INVALID_SIGNATURE", "invalid signature")
		case errors.Is(err, cashiersvc.ErrInvalidPayload):
			writeBadRequest(w, "INVALID_PAYLOAD", msgInvalidRequest)
		case errors.Is(err, cashiersvc.ErrOrderNotFound):
			writeNotFound(w, msgNotFound)
		default:
			h.log.Error("cashier webhook", zap.Error(err))
			writeInternal(w, "WEBHOOK_FAILED", msgServerError)
		}
		return
	}

	resp := dto.CashierWebhookResponse{Success: true, Idempotent: res.Idempotent, Ignored: res.Ignored}
	if res.Order != nil {
		resp.OrderID = res.Order.ID
	}
	writeOK(w, resp)
}
