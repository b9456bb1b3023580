package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes the CRM API's own validation messages through to the console.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound, "customer not found"
	case errors.Is(err, domain.ErrInteractionNotFound):
		return http.StatusNotFound, "interaction not found"
	case errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidRegistration):
		return http.StatusBadRequest, domain.ErrInvalidRegistration.Error()
	case errors.Is(err, domain.ErrAnalyticsUnavailable):
		return http.StatusServiceUnavailable, domain.ErrAnalyticsUnavailable.Error()
	}

	// The CRM API rejected the request itself (duplicate email, bad field).
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Message != "" {
		return apiErr.Status, apiErr.Message
	}

	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("crm api timed out")
		return http.StatusGatewayTimeout, "crm api timed out"
	}

	if errors.Is(err, domain.ErrFetchFailed) {
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("crm api request failed")
		return http.StatusBadGateway, "crm api request failed"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
