package common

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/futig/tutor-backend/internal/entity"
	pkgHTTP "github.com/futig/tutor-backend/pkg/http"
	openai "github.com/sashabaranov/go-openai"
)

// NewProviderError wraps err as a *entity.ProviderError with a classified kind.
// Existing provider errors are returned unchanged.
func NewProviderError(provider string, err error) *entity.ProviderError {
	var provErr *entity.ProviderError
	if errors.As(err, &provErr) {
		return provErr
	}

	return &entity.ProviderError{
		Provider: provider,
		Kind:     Classify(err),
		Err:      err,
	}
}

// MissingCredential reports an absent API key as a configuration failure of the provider.
func MissingCredential(provider string) *entity.ProviderError {
	return &entity.ProviderError{
		Provider: provider,
		Kind:     entity.ProviderErrorConfiguration,
		Err: &entity.ConfigurationError{
			Provider: provider,
			Reason:   entity.ReasonMissingCredential,
		},
	}
}

func Classify(err error) entity.ProviderErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return entity.ProviderErrorTimeout
	}

	var confErr *entity.ConfigurationError
	if errors.As(err, &confErr) {
		return entity.ProviderErrorConfiguration
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return kindForStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return kindForStatus(reqErr.HTTPStatusCode)
	}

	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		return kindForStatus(httpErr.StatusCode)
	}

	var decodeErr *pkgHTTP.DecodeError
	if errors.As(err, &decodeErr) {
		return entity.ProviderErrorMalformed
	}

	var connErr *pkgHTTP.NetworkError
	if errors.As(err, &connErr) && connErr.Timeout() {
		return entity.ProviderErrorTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entity.ProviderErrorTimeout
	}

	return entity.ProviderErrorNetwork
}

func kindForStatus(status int) entity.ProviderErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return entity.ProviderErrorRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return entity.ProviderErrorTimeout
	case http.StatusUnauthorized, http.StatusForbidden:
		return entity.ProviderErrorConfiguration
	default:
		return entity.ProviderErrorUpstream
	}
}
