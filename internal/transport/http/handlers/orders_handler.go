package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	mediasvc "github.com/johnlatif16/king-store-esport/internal/services/media"
	orderssvc "github.com/johnlatif16/king-store-esport/internal/services/orders"
	"github.com/johnlatif16/king-store-esport/internal/transport/http/dto"
	httperrors "github.com/johnlatif16/king-store-esport/internal/transport/http/errors"
)

const multipartOverhead = 1 << 20

type OrdersHandler struct {
	service  *orderssvc.Service
	maxBytes int64
	log      *zap.Logger
}

func NewOrdersHandler(service *orderssvc.Service, maxScreenshotBytes int64, log *zap.Logger) *OrdersHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if maxScreenshotBytes <= 0 {
		maxScreenshotBytes = 5 << 20
	}
	return &OrdersHandler{service: service, maxBytes: maxScreenshotBytes, log: log}
}

// Submit accepts multipart/form-data with an optional "screenshot" file, or a
// JSON body without one. Unknown JSON fields are ignored like extra form fields.
func (h *OrdersHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ORDER_SERVICE_UNAVAILABLE", msgSaveFailed)
		return
	}

	var in orderssvc.SubmitInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httperrors.Write(w, http.StatusRequestEntityTooLarge, httperrors.New("FILE_TOO_LARGE", msgFileTooLarge))
				return
			}
			writeBadRequest(w, "VALIDATION_ERROR", msgOrderFieldsRequired)
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		in = orderssvc.SubmitInput{
			Name:          r.FormValue("name"),
			PlayerID:      r.FormValue("playerId"),
			Email:         r.FormValue("email"),
			UCAmount:      r.FormValue("ucAmount"),
			Bundle:        r.FormValue("bundle"),
			TotalAmount:   r.FormValue("totalAmount"),
			TransactionID: r.FormValue("transactionId"),
		}

		file, header, err := r.FormFile("screenshot")
		switch {
		case err == nil:
			defer file.Close()
			in.Screenshot = &mediasvc.Upload{FileName: header.Filename, Body: file, Size: header.Size}
		case errors.Is(err, http.ErrMissingFile):
		default:
			writeBadRequest(w, "VALIDATION_ERROR", msgScreenshotRequired)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, multipartOverhead)
		var req dto.SubmitOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", msgOrderFieldsRequired)
			return
		}
		in = orderssvc.SubmitInput{
			Name:          string(req.Name),
			PlayerID:      string(req.PlayerID),
			Email:         string(req.Email),
			UCAmount:      string(req.UCAmount),
			Bundle:        string(req.Bundle),
			TotalAmount:   string(req.TotalAmount),
			TransactionID: string(req.TransactionID),
		}
	}

	order, err := h.service.Submit(r.Context(), in)
	if err != nil {
		h.handleSubmitError(w, err)
		return
	}

	writeOK(w, dto.CreatedResponse{Success: true, ID: order.ID})
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ORDER_SERVICE_UNAVAILABLE", msgDatabaseError)
		return
	}

	orders, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("list orders", zap.Error(err))
		writeInternal(w, "DATABASE_ERROR", msgDatabaseError)
		return
	}

	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, dto.NewOrderResponse(o))
	}
	writeOK(w, dto.OrdersListResponse{Success: true, Data: items})
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ORDER_SERVICE_UNAVAILABLE", msgUpdateFailed)
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.ID <= 0 || strings.TrimSpace(req.Status) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", msgStatusFieldsRequired)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), int64(req.ID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orderssvc.ErrInvalidStatus):
			writeBadRequest(w, "INVALID_STATUS", msgInvalidStatus)
		case errors.Is(err, orderssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", msgStatusFieldsRequired)
		case errors.Is(err, orderssvc.ErrNotFound):
			writeNotFound(w, msgNotFound)
		default:
			h.log.Error("update order status", zap.Int64("order_id", int64(req.ID)), zap.Error(err))
			writeInternal(w, "UPDATE_FAILED", msgUpdateFailed)
		}
		return
	}

	writeOK(w, dto.OrderStatusResponse{Success: true, Order: dto.NewOrderResponse(order)})
}

func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", msgInvalidRequest)
		return
	}
	h.delete(w, r, id)
}

// DeleteLegacy reads the id from a JSON body.
func (h *OrdersHandler) DeleteLegacy(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteRequest
	if err := decodeJSON(r, &req); err != nil || req.ID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", msgInvalidRequest)
		return
	}
	h.delete(w, r, int64(req.ID))
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if h.service == nil {
		writeInternal(w, "ORDER_SERVICE_UNAVAILABLE", msgDeleteFailed)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		handleDeleteError(w, h.log, "order", id, err, orderssvc.ErrNotFound)
		return
	}
	writeOK(w, dto.SuccessResponse{Success: true})
}

func (h *OrdersHandler) Screenshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w, msgNoScreenshot)
		return
	}
	if h.service == nil {
		writeInternal(w, "ORDER_SERVICE_UNAVAILABLE", msgDatabaseError)
		return
	}

	shot, err := h.service.OpenScreenshot(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, orderssvc.ErrNotFound), errors.Is(err, orderssvc.ErrNoScreenshot):
			writeNotFound(w, msgNoScreenshot)
		case errors.Is(err, mediasvc.ErrObjectNotFound):
			writeNotFound(w, msgFileMissing)
		default:
			h.log.Error("open order screenshot", zap.Int64("order_id", id), zap.Error(err))
			writeInternal(w, "DATABASE_ERROR", msgDatabaseError)
		}
		return
	}
	defer shot.Body.Close()

	w.Header().Set("Content-Type", shot.ContentType)
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if shot.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(shot.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, shot.Body); err != nil {
		h.log.Warn("stream order screenshot", zap.Int64("order_id", id), zap.Error(err))
	}
}

func (h *OrdersHandler) handleSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderssvc.ErrScreenshotRequired):
		writeBadRequest(w, "SCREENSHOT_REQUIRED", msgScreenshotRequired)
	case errors.Is(err, orderssvc.ErrValidation), errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", msgOrderFieldsRequired)
	case errors.Is(err, mediasvc.ErrInvalidFile):
		writeBadRequest(w, "INVALID_FILE_TYPE", msgInvalidFileType)
	case errors.Is(err, mediasvc.ErrFileTooLarge):
		httperrors.Write(w, http.StatusRequestEntityTooLarge, httperrors.New("FILE_TOO_LARGE", msgFileTooLarge))
	default:
		h.log.Error("submit order", zap.Error(err))
		writeInternal(w, "SAVE_FAILED", msgSaveFailed)
	}
}

func handleDeleteError(w http.ResponseWriter, log *zap.Logger, entity string, id int64, err, notFound error) {
	switch {
	case errors.Is(err, notFound):
		writeNotFound(w, msgNotFound)
	default:
		log.Error("delete "+entity, zap.Int64("id", id), zap.Error(err))
		writeInternal(w, "DELETE_FAILED", msgDeleteFailed)
	}
}
