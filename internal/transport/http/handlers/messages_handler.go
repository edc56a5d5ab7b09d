package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	broadcastsvc "github.com/johnlatif16/king-store-esport/internal/services/broadcast"
	"github.com/johnlatif16/king-store-esport/internal/transport/http/dto"
)

type MessagesHandler struct {
	service *broadcastsvc.Service
	log     *zap.Logger
}

func NewMessagesHandler(service *broadcastsvc.Service, log *zap.Logger) *MessagesHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessagesHandler{service: service, log: log}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MESSAGE_SERVICE_UNAVAILABLE", msgSendFailed)
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgAllFieldsRequired)
		return
	}

	err := h.service.Send(r.Context(), broadcastsvc.Input{
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, broadcastsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", msgAllFieldsRequired)
			return
		}
		h.log.Error("send message", adminField(r), zap.Error(err))
		writeInternal(w, "SEND_FAILED", msgSendFailed)
		return
	}

	h.log.Info("admin message sent", adminField(r), zap.String("to", req.Email))

	writeOK(w, dto.SuccessResponse{Success: true})
}
