package response

import (
	"encoding/json"
	"net/http"

	"github.com/verdeo/auth-service/domain/apperror"
)

type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, Envelope{Status: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Envelope{Status: false, Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func UnprocessableEntity(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnprocessableEntity, message)
}

// FromAppError maps classified outcomes to their HTTP status. Unclassified
// errors and storage failures surface as 5xx with a generic message.
func FromAppError(w http.ResponseWriter, err error) {
	code := apperror.CodeOf(err)

	var statusCode int
	message := "internal server error"
	switch code {
	case apperror.ErrCodeInvalidCredentials:
		statusCode, message = http.StatusUnauthorized, "invalid email or password"
	case apperror.ErrCodeInvalidToken:
		statusCode, message = http.StatusUnauthorized, "invalid or expired token"
	case apperror.ErrCodeWrongAccountKind:
		statusCode, message = http.StatusForbidden, "account kind not allowed for this endpoint"
	case apperror.ErrCodeDuplicateEmail:
		statusCode, message = http.StatusConflict, "email already registered"
	case apperror.ErrCodeTooManyAttempts:
		statusCode, message = http.StatusTooManyRequests, "too many attempts, try again later"
	case apperror.ErrCodeValidation:
		statusCode, message = http.StatusUnprocessableEntity, err.Error()
	case apperror.ErrCodeNotFound:
		statusCode, message = http.StatusNotFound, "not found"
	case apperror.ErrCodeStorageUnavailable:
		statusCode, message = http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		statusCode = http.StatusInternalServerError
	}

	WriteJSON(w, statusCode, Envelope{Status: false, Message: message, Code: string(code)})
}
