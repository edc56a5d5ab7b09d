package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/johnlatif16/king-store-esport/internal/transport/http/errors"
)

const (
	msgOrderFieldsRequired  = "جميع الحقول مطلوبة + اختيار شدات/حزمة + رقم التحويل + سكرين شوت"
	msgScreenshotRequired   = "السكرين شوت مطلوب"
	msgInvalidFileType      = "Invalid file type. Only jpeg/png/webp allowed."
	msgFileTooLarge         = "حجم الملف كبير جداً"
	msgSaveFailed           = "حدث خطأ أثناء الحفظ"
	msgDatabaseError        = "خطأ في قاعدة البيانات"
	msgInquiryRequired      = "البريد + الرسالة مطلوبين"
	msgSuggestionRequired   = "الاسم + وسيلة التواصل + الرسالة مطلوبين"
	msgStatusFieldsRequired = "معرّف الطلب والحالة مطلوبان"
	msgInvalidStatus        = "حالة غير معروفة"
	msgUpdateFailed         = "حدث خطأ أثناء التحديث"
	msgDeleteFailed         = "حدث خطأ أثناء الحذف"
	msgNotFound             = "العنصر غير موجود"
	msgNoScreenshot         = "لا يوجد صورة"
	msgFileMissing          = "الملف غير موجود"
	msgAllFieldsRequired    = "جميع الحقول مطلوبة"
	msgReplyFailed          = "فشل إرسال الرد"
	msgSendFailed           = "فشل إرسال الرسالة"
	msgBadCredentials       = "بيانات الدخول غير صحيحة"
	msgForbidden            = "غير مصرح"
	msgInvalidRequest       = "طلب غير صالح"
	msgServerError          = "Server error"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeOK(w http.ResponseWriter, payload any) {
	httperrors.Write(w, http.StatusOK, payload)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.New(code, message))
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.New(code, message))
}

func writeForbidden(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusForbidden, httperrors.New("FORBIDDEN", msgForbidden))
}

func writeNotFound(w http.ResponseWriter, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.New("NOT_FOUND", message))
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.New(code, message))
}

func pathID(r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
