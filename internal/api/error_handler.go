package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/notes-api/internal/api/handler"
	"github.com/99minutos/notes-api/internal/core/domain"
)

const (
	msgWrongCredentials = "Wrong email or password"
	msgNoSession        = "No such session"
	msgNoNote           = "No such note"
	msgInternal         = "Internal server error"
)

// errorResponse is the canonical error envelope: {"errors": {field: message}}.
type errorResponse struct {
	Errors map[string]string `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and field errors.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders every failure with the same {"errors": {...}} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, fields := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Errors: fields})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, map[string]string) {
	var fe handler.FieldErrors
	if errors.As(err, &fe) {
		return http.StatusBadRequest, fe
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, map[string]string{"authorization": msgNoSession}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, map[string]string{
			"email":    msgWrongCredentials,
			"password": msgWrongCredentials,
		}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, map[string]string{"email": "User with this email already exists"}
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, map[string]string{"password": "Password must be at most 72 bytes"}
	case errors.Is(err, domain.ErrNoteNotFound):
		return http.StatusNotFound, map[string]string{"note": msgNoNote}
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented, map[string]string{"compressed_diff": "Diff updates are not supported yet"}
	}

	// Echo's own errors (bind failures, 404/405 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, map[string]string{"request": fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, map[string]string{"server": msgInternal}
}
