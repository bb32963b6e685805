package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorsResponse documents the error envelope for swagger.
type errorsResponse struct {
	Errors map[string]string `json:"errors"`
}

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
