package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"loan-backoffice/internal/api/handler/dto"
	"loan-backoffice/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message := http.StatusInternalServerError, "An unexpected error occurred."
	var (
		fieldErrs       apperrors.FieldErrors
		constraintError *apperrors.ConstraintError
		validationError *apperrors.ValidationError
		appErr          *apperrors.AppError
		fields          map[string]string
		field           string
	)

	switch {
	case errors.As(err, &fieldErrs):
		status, message, fields = http.StatusUnprocessableEntity, "The given data was invalid.", fieldErrs
	case errors.As(err, &constraintError):
		status, message = http.StatusUnprocessableEntity, "The given data was invalid."
		fields = map[string]string{constraintError.Field: constraintError.Message}
	case errors.As(err, &validationError):
		status, message, field = http.StatusUnprocessableEntity, validationError.Message, validationError.Field
		if field != "" {
			fields = map[string]string{field: validationError.Message}
		}
	case errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.As(err, &appErr):
		message = appErr.Error()
		slog.Default().Error("Application error", "error", err)
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
			Fields:  fields,
		},
	}
	respondJSON(w, status, resp)
}

// idFromURL reads a positive int64 path parameter.
func idFromURL(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, fmt.Errorf("%w: %s not found in URL path", apperrors.ErrInvalidArgument, param)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s format in URL path: %s", apperrors.ErrInvalidArgument, param, idStr)
	}
	return id, nil
}

// logLevelFor keeps expected client errors out of the error log.
func logLevelFor(err error) slog.Level {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrConstraint) || errors.Is(err, apperrors.ErrAlreadyExists) {
		return slog.LevelWarn
	}
	return slog.LevelError
}
