package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse represents the validation error response format
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// LocaleTranslations holds error message translations for different locales
type LocaleTranslations struct {
	Required      string
	NotBlank      string
	Min           string
	Max           string
	Gt            string
	DecimalAmount string
	Invalid       string
}

var translations = map[string]LocaleTranslations{
	"en": {
		Required:      "The %s field is required",
		NotBlank:      "The %s field must not be blank",
		Min:           "The %s field must be at least %s",
		Max:           "The %s field must not exceed %s",
		Gt:            "The %s field must be greater than %s",
		DecimalAmount: "The %s field must be a non-negative amount with at most two decimal places",
		Invalid:       "The %s field is invalid",
	},
	"fa": {
		Required:      "فیلد %s الزامی است",
		NotBlank:      "فیلد %s نباید خالی باشد",
		Min:           "فیلد %s باید حداقل %s باشد",
		Max:           "فیلد %s نباید بیشتر از %s باشد",
		Gt:            "فیلد %s باید بزرگتر از %s باشد",
		DecimalAmount: "فیلد %s باید مبلغی نامنفی با حداکثر دو رقم اعشار باشد",
		Invalid:       "فیلد %s نامعتبر است",
	},
}

// GetDefaultLocale returns the default locale
func GetDefaultLocale() string {
	return "en"
}

// GetLocaleTranslations returns translations for a given locale, or default locale if not found
func GetLocaleTranslations(locale string) LocaleTranslations {
	if t, ok := translations[NormalizeLocale(locale)]; ok {
		return t
	}
	return translations[GetDefaultLocale()]
}

// NormalizeLocale reduces "fa-IR" or "en_US,en;q=0.9" to a bare language code
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ",;"); i >= 0 {
		locale = locale[:i]
	}
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}

// FormatValidationError formats a validator.FieldError into a localized error message
func FormatValidationError(fe validator.FieldError, locale string) string {
	t := GetLocaleTranslations(locale)
	fieldName := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf(t.Required, fieldName)
	case "notblank":
		return fmt.Sprintf(t.NotBlank, fieldName)
	case "min":
		return fmt.Sprintf(t.Min, fieldName, fe.Param())
	case "max":
		return fmt.Sprintf(t.Max, fieldName, fe.Param())
	case "gt":
		return fmt.Sprintf(t.Gt, fieldName, fe.Param())
	case "decimal_amount":
		return fmt.Sprintf(t.DecimalAmount, fieldName)
	default:
		return fmt.Sprintf(t.Invalid, fieldName)
	}
}

// WriteValidationErrorResponse writes a 422 with one localized message per field.
// The first error becomes the top-level message. Errors that are not
// validator.ValidationErrors are reported as a generic invalid payload.
func WriteValidationErrorResponse(w http.ResponseWriter, err error, locale string) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		WriteValidationErrorResponseFromString(w, "", locale)
		return
	}

	fieldErrors := make(map[string]string)
	var firstMessage string

	for i, fe := range validationErrors {
		msg := FormatValidationError(fe, locale)
		fieldErrors[fe.Field()] = msg
		if i == 0 {
			firstMessage = msg
		}
	}

	writeValidationResponse(w, ValidationErrorResponse{
		Message: firstMessage,
		Errors:  fieldErrors,
	})
}

// WriteValidationErrorResponseFromString writes a validation error response from a single error message
func WriteValidationErrorResponseFromString(w http.ResponseWriter, message string, locale string) {
	if message == "" {
		message = fmt.Sprintf(GetLocaleTranslations(locale).Invalid, "request")
	}

	writeValidationResponse(w, ValidationErrorResponse{
		Message: message,
		Errors:  make(map[string]string),
	})
}

func writeValidationResponse(w http.ResponseWriter, response ValidationErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(response)
}
