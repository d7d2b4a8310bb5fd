package handlers

import (
	"errors"
	"net/http"
	"todoApp/internal/logger"
	"todoApp/internal/repository"
	"todoApp/internal/service"

	"go.uber.org/zap"
)

const (
	msgAddFailed      = "Failed to add task"
	msgCompleteFailed = "Failed to complete task"
	msgDeleteFailed   = "Failed to delete task"
	msgUnexpected     = "An unexpected error occurred"
	msgInvalidForm    = "Invalid form data"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	logger.Warn("HTTP: Business error",
		zap.String("error_code", businessErr.Code),
		zap.Any("details", businessErr.Details),
		zap.Int("http_status", statusCode))

	responseWithError(w, statusCode, businessErr.Message)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// No store failure is the caller's fault, throttling included.
func mapStoreKindToHTTP(repository.Kind) int {
	return http.StatusInternalServerError
}

// handleServiceError writes the response for a failed mutation: validation
// errors keep their message, store failures get storeMessage and anything
// else the generic message.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation, storeMessage string) {
	if handleBusinessError(w, err) {
		return
	}

	if kind, ok := repository.KindOf(err); ok {
		logger.Error("HTTP: Store failure", err,
			zap.String("operation", operation),
			zap.String("kind", string(kind)),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, mapStoreKindToHTTP(kind), storeMessage)
		return
	}

	logger.Error("HTTP: Unexpected error", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusInternalServerError, msgUnexpected)
}
