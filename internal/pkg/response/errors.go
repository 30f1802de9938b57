package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Fail logs err and writes an ErrorResponse with status.
func Fail(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Int("status", status), zap.Error(err))
	}
	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// HandleUsecaseError maps domain errors to HTTP responses.
func HandleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		quotaErr    *entity.QuotaExceededError
		configErr   *entity.ConfigurationError
		providerErr *entity.ProviderError
	)

	switch {
	case errors.As(err, &quotaErr):
		ctxzap.Warn(ctx, "storage quota exceeded", zap.Error(err))
		JSON(w, http.StatusRequestEntityTooLarge, entity.QuotaErrorResponse{
			ErrorResponse: entity.ErrorResponse{
				Error:   http.StatusText(http.StatusRequestEntityTooLarge),
				Message: quotaErr.Error(),
			},
			LimitMB:     quotaErr.LimitMB,
			UsageMB:     quotaErr.UsageMB,
			AttemptedMB: quotaErr.AttemptedMB,
			RemainingMB: quotaErr.RemainingMB,
			ExceedsByMB: quotaErr.ExceedsByMB(),
		})
	case errors.As(err, &configErr):
		if configErr.UnsupportedProvider() {
			Fail(ctx, w, http.StatusBadRequest, configErr.Error(), err)
		} else {
			Fail(ctx, w, http.StatusServiceUnavailable, configErr.Error(), err)
		}
	case errors.As(err, &providerErr):
		if providerErr.Kind == entity.ProviderErrorTimeout {
			Fail(ctx, w, http.StatusGatewayTimeout, providerErr.UserMessage(), err)
		} else {
			Fail(ctx, w, http.StatusBadGateway, providerErr.UserMessage(), err)
		}
	case errors.Is(err, entity.ErrMalformedGradingResponse):
		Fail(ctx, w, http.StatusBadGateway, "AI returned an invalid format for the grade", err)
	case errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrDocumentNotFound) ||
		errors.Is(err, entity.ErrAssignmentNotFound) || errors.Is(err, entity.ErrIndexNotFound) ||
		errors.Is(err, entity.ErrUserNotFound):
		Fail(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidCredentials):
		Fail(ctx, w, http.StatusUnauthorized, "incorrect username or password", err)
	case errors.Is(err, entity.ErrUnauthorized):
		Fail(ctx, w, http.StatusUnauthorized, "not authenticated", err)
	case errors.Is(err, entity.ErrForbidden):
		Fail(ctx, w, http.StatusForbidden, "not allowed", err)
	case errors.Is(err, entity.ErrUserExists):
		Fail(ctx, w, http.StatusConflict, "username already registered", err)
	case errors.Is(err, entity.ErrFileTooLarge):
		Fail(ctx, w, http.StatusRequestEntityTooLarge, err.Error(), err)
	case errors.Is(err, entity.ErrInvalidExtension) || errors.Is(err, entity.ErrInvalidFile) ||
		errors.Is(err, entity.ErrEmptyDocument):
		Fail(ctx, w, http.StatusBadRequest, "invalid file: "+err.Error(), err)
	case errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) ||
		errors.Is(err, entity.ErrMissingField):
		Fail(ctx, w, http.StatusBadRequest, err.Error(), err)
	default:
		Fail(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
