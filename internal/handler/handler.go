package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"grocery-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeBadRequest writes a 400 carrying a machine-readable code.
func writeBadRequest(w http.ResponseWriter, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("error", message).Msg("bad request")
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: message, Code: code})
}

// writeDomainError maps err to a status code. Errors that are not domain
// errors are reported as 500 with fallback as the message.
func writeDomainError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	if errors.Is(err, model.ErrCheckoutFailed) {
		if cause := checkoutCause(err); cause != nil {
			writeDomainError(w, cause, fallback, logger)
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		logger.Error().Err(err).Int("status", status).Msg("sale submission failed")
		writeJSON(w, status, model.ErrorResponse{
			Error: model.ErrCheckoutFailed.Message,
			Code:  model.ErrCodeCheckoutFailed,
		})
		return
	}

	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg(fallback)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error: fallback,
			Code:  model.ErrCodeInternalError,
		})
		return
	}

	status := statusFor(domainErr.Code)
	logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg(domainErr.Message)
	writeJSON(w, status, model.ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
}

// checkoutCause returns the domain error the order store failed with, if
// any, from an error wrapped in model.ErrCheckoutFailed.
func checkoutCause(err error) *model.DomainError {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	for _, e := range joined.Unwrap() {
		var domainErr *model.DomainError
		if errors.As(e, &domainErr) && domainErr != model.ErrCheckoutFailed {
			return domainErr
		}
	}
	return nil
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeCustomerNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeCheckoutInProgress,
		model.ErrCodeNotAwaitingConfirmation,
		model.ErrCodeDuplicateOrderNumber:
		return http.StatusConflict
	case model.ErrCodeNoWarehouse:
		return http.StatusUnprocessableEntity
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathUUID parses the named path value as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
