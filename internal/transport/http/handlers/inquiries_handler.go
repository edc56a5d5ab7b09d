package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	inquiriessvc "github.com/johnlatif16/king-store-esport/internal/services/inquiries"
	suggestionssvc "github.com/johnlatif16/king-store-esport/internal/services/suggestions"
	"github.com/johnlatif16/king-store-esport/internal/transport/http/dto"
)

type InquiriesHandler struct {
	service *inquiriessvc.Service
	log     *zap.Logger
}

func NewInquiriesHandler(service *inquiriessvc.Service, log *zap.Logger) *InquiriesHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InquiriesHandler{service: service, log: log}
}

func (h *InquiriesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "INQUIRY_SERVICE_UNAVAILABLE", msgDatabaseError)
		return
	}

	var in inquiriessvc.SubmitInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgInquiryRequired)
		return
	}

	created, err := h.service.Submit(r.Context(), in)
	if err != nil {
		if errors.Is(err, inquiriessvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", msgInquiryRequired)
			return
		}
		h.log.Error("submit inquiry", zap.Error(err))
		writeInternal(w, "DATABASE_ERROR", msgDatabaseError)
		return
	}

	writeOK(w, dto.CreatedResponse{Success: true, ID: created.ID})
}

func (h *InquiriesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "INQUIRY_SERVICE_UNAVAILABLE", msgDatabaseError)
		return
	}

	items, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("list inquiries", zap.Error(err))
		writeInternal(w, "DATABASE_ERROR", msgDatabaseError)
		return
	}

	data := make([]dto.InquiryResponse, 0, len(items))
	for _, item := range items {
		data = append(data, dto.NewInquiryResponse(item))
	}
	writeOK(w, dto.InquiriesListResponse{Success: true, Data: data})
}

func (h *InquiriesHandler) Reply(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "INQUIRY_SERVICE_UNAVAILABLE", msgReplyFailed)
		return
	}

	var req dto.ReplyInquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgAllFieldsRequired)
		return
	}

	err := h.service.Reply(r.Context(), inquiriessvc.ReplyInput{
		InquiryID: int64(req.InquiryID),
		Email:     req.Email,
		Message:   req.Message,
		Reply:     req.Reply,
	})
	if err != nil {
		switch {
		case errors.Is(err, inquiriessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", msgAllFieldsRequired)
		case errors.Is(err, inquiriessvc.ErrNotFound):
			writeNotFound(w, msgNotFound)
		default:
			h.log.Error("reply inquiry", adminField(r), zap.Int64("inquiry_id", int64(req.InquiryID)), zap.Error(err))
			writeInternal(w, "REPLY_FAILED", msgReplyFailed)
		}
		return
	}

	h.log.Info("inquiry replied", adminField(r), zap.Int64("inquiry_id", int64(req.InquiryID)))
	writeOK(w, dto.SuccessResponse{Success: true})
}

func (h *InquiriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", msgInvalidRequest)
		return
	}
	h.delete(w, r, id)
}

func (h *InquiriesHandler) DeleteLegacy(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteRequest
	if err := decodeJSON(r, &req); err != nil || req.ID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", msgInvalidRequest)
		return
	}
	h.delete(w, r, int64(req.ID))
}

func (h *InquiriesHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if h.service == nil {
		writeInternal(w, "INQUIRY_SERVICE_UNAVAILABLE", msgDeleteFailed)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		handleDeleteError(w, h.log, "inquiry", id, err, inquiriessvc.ErrNotFound)
		return
	}
	writeOK(w, dto.SuccessResponse{Success: true})
}

type SuggestionsHandler struct {
	service *suggestionssvc.Service
	log     *zap.Logger
}

func NewSuggestionsHandler(service *suggestionssvc.Service, log *zap.Logger) *SuggestionsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SuggestionsHandler{service: service, log: log}
}

func (h *SuggestionsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SUGGESTION_SERVICE_UNAVAILABLE", msgDatabaseError)
		return
	}

	var in suggestionssvc.SubmitInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgSuggestionRequired)
		return
	}

	created, err := h.service.Submit(r.Context(), in)
	if err != nil {
		if errors.Is(err, suggestionssvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", msgSuggestionRequired)
			return
		}
		h.log.Error("submit suggestion", zap.Error(err))
		writeInternal(w, "DATABASE_ERROR", msgDatabaseError)
		return
	}

	writeOK(w, dto.CreatedResponse{Success: true, ID: created.ID})
}

func (h *SuggestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SUGGESTION_SERVICE_UNAVAILABLE", msgDatabaseError)
		return
	}

	items, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("list suggestions", zap.Error(err))
		writeInternal(w, "DATABASE_ERROR", msgDatabaseError)
		return
	}

	data := make([]dto.SuggestionResponse, 0, len(items))
	for _, item := range items {
		data = append(data, dto.NewSuggestionResponse(item))
	}
	writeOK(w, dto.SuggestionsListResponse{Success: true, Data: data})
}

func (h *SuggestionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", msgInvalidRequest)
		return
	}
	h.delete(w, r, id)
}

func (h *SuggestionsHandler) DeleteLegacy(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteRequest
	if err := decodeJSON(r, &req); err != nil || req.ID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", msgInvalidRequest)
		return
	}
	h.delete(w, r, int64(req.ID))
}

func (h *SuggestionsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if h.service == nil {
		writeInternal(w, "SUGGESTION_SERVICE_UNAVAILABLE", msgDeleteFailed)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		handleDeleteError(w, h.log, "suggestion", id, err, suggestionssvc.ErrNotFound)
		return
	}
	writeOK(w, dto.SuccessResponse{Success: true})
}
