package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campneus/cofre/internal/api/metrics"
	"github.com/campneus/cofre/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrForbidden):
		metrics.AuthzDenialsTotal.WithLabelValues(resourceOf(c)).Inc()
		return http.StatusForbidden, "access denied"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusUnauthorized, "account deactivated"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many failed attempts, try again later"
	case errors.Is(err, domain.ErrCredentialNotFound):
		return http.StatusNotFound, "credential not found"
	case errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound, "location not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrLocationInUse):
		return http.StatusConflict, "location still referenced by credentials"
	case errors.Is(err, domain.ErrSelfAction):
		return http.StatusBadRequest, "operation not allowed on your own account"
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, "invalid category"
	case errors.Is(err, domain.ErrSecretRequired):
		return http.StatusBadRequest, "secret is required"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "invalid role"
	case errors.Is(err, domain.ErrSecretUnavailable):
		// The real cause stays in the logs; clients get a generic failure so
		// the response never hints at the state of the stored ciphertext.
		metrics.SecretDecryptFailuresTotal.Inc()
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("secret unavailable")
		return http.StatusInternalServerError, "unable to retrieve credential"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// resourceOf labels authorization denials by the first path segment under the
// API root, falling back to "unknown" for unrouted paths.
func resourceOf(c echo.Context) string {
	switch {
	case pathHasPrefix(c, "/credentials"):
		return "credential"
	case pathHasPrefix(c, "/locations"):
		return "location"
	case pathHasPrefix(c, "/users"):
		return "user"
	case pathHasPrefix(c, "/dashboard"):
		return "dashboard"
	default:
		return "unknown"
	}
}

func pathHasPrefix(c echo.Context, prefix string) bool {
	p := c.Path()
	if p == "" {
		p = c.Request().URL.Path
	}
	return strings.HasPrefix(p, prefix)
}
