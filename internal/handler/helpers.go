package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/vr-ski/TransactionManager/internal/middleware"
	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/service"
	"github.com/vr-ski/TransactionManager/pkg/helpers"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

const transactionNotFoundMessage = "Transaction not found."

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service errors to HTTP responses. Unknown errors are
// logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrTransactionNotFound), errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusNotFound, transactionNotFoundMessage)
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrContractorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.WithRequestID(middleware.RequestIDFromContext(r.Context())).
			WithError(err).
			WithField("path", r.URL.Path).
			Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSONBody decodes the request body into dst. An empty body is reported
// as io.EOF.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// validateRequest writes a 422 and returns false when req fails validation
func validateRequest(w http.ResponseWriter, r *http.Request, v *helpers.CustomValidator, req interface{}) bool {
	if err := v.Validate(req); err != nil {
		helpers.WriteValidationErrorResponse(w, err, requestLocale(r))
		return false
	}
	return true
}

func writeBadPayload(w http.ResponseWriter, r *http.Request) {
	helpers.WriteValidationErrorResponseFromString(w, "", requestLocale(r))
}

func parseIDParam(r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// requestLang is the catalog language for display labels
func requestLang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return models.DefaultLanguage
}

// requestLocale picks the language of validation messages
func requestLocale(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return helpers.NormalizeLocale(lang)
	}
	return helpers.NormalizeLocale(r.Header.Get("Accept-Language"))
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return 0, false
	}
	return user.UserID, true
}
