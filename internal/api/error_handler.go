package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "...", "detail": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

// statusFor maps sentinel errors to HTTP statuses, first match wins.
// Sentinels flagged withDetail render the wrapped reason as "detail".
var statusFor = []struct {
	sentinel   error
	code       int
	withDetail bool
}{
	{domain.ErrInvalidInput, http.StatusBadRequest, true},
	{domain.ErrSelfDelete, http.StatusBadRequest, false},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, false},
	{domain.ErrSessionRevoked, http.StatusUnauthorized, false},
	{domain.ErrForbidden, http.StatusForbidden, false},
	{domain.ErrProjectNotFound, http.StatusNotFound, false},
	{domain.ErrDomainNotFound, http.StatusNotFound, false},
	{domain.ErrAnalysisNotFound, http.StatusNotFound, false},
	{domain.ErrUserNotFound, http.StatusNotFound, false},
	{domain.ErrNotFound, http.StatusNotFound, false},
	{domain.ErrUserExists, http.StatusConflict, false},
	{domain.ErrAnalysisRunning, http.StatusConflict, false},
	{domain.ErrLLMKeyMissing, http.StatusInternalServerError, false},
	{domain.ErrMalformedOutput, http.StatusBadGateway, false},
	{domain.ErrEmptyOutput, http.StatusBadGateway, false},
	{domain.ErrUpstream, http.StatusBadGateway, true},
	{domain.ErrNoSuggestions, http.StatusServiceUnavailable, false},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	for _, m := range statusFor {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		body := errorResponse{Error: m.sentinel.Error()}
		if m.withDetail {
			body.Detail = reason(err, m.sentinel)
		}
		if m.sentinel == domain.ErrUpstream {
			log.Warn().Err(err).Str("path", c.Path()).Msg("llm upstream failure")
		}
		return m.code, body
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// reason strips the sentinel prefix from a wrapped error message.
func reason(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	return strings.TrimSpace(strings.TrimPrefix(msg, ":"))
}
