package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MapToHTTPError converts a service error into the HTTP error returned at the
// API boundary. Input problems keep their per-field messages, authentication
// problems become a plain 401, and everything else is hidden behind a 500.
func MapToHTTPError(err error) error {
	if fields, ok := AsFieldErrors(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"message": "Bad input",
			"errors":  fields,
		})
	}
	if IsUnauthenticated(err) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
