package transport

import (
	"errors"
	"net/http"
	"strconv"

	"industrial-catalog/internal/middleware"
	"industrial-catalog/internal/repository"
	"industrial-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// statusForError maps service and store errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrCategoryInUse),
		errors.Is(err, repository.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, repository.ErrUnknownCategory),
		errors.Is(err, service.ErrDuplicateVariantID):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes the error envelope for err. Client errors
// carry the error text; server errors get a generic message.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	status := statusForError(err)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("Failed to "+action, zap.Error(err))
		message := "failed to " + action
		if status == http.StatusServiceUnavailable {
			message = "storage backend unavailable"
		}
		middleware.RespondWithError(w, status, message)
	default:
		logger.Debug("Rejected request to "+action, zap.Error(err))
		middleware.RespondWithError(w, status, rootMessage(err))
	}
}

// rootMessage returns the text of the sentinel error err wraps
func rootMessage(err error) string {
	for _, sentinel := range []error{
		repository.ErrProductNotFound,
		repository.ErrCategoryNotFound,
		repository.ErrUserNotFound,
		repository.ErrCategoryInUse,
		repository.ErrDuplicateUsername,
		repository.ErrUnknownCategory,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// decodeRequest decodes and validates the JSON body into v, writing a 400
// response and returning false when it is unusable.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// idParam parses the {id} URL parameter
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
