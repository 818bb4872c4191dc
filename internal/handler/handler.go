package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
)

// decodeBody reads a JSON body into v. An empty body decodes as an empty
// object.
func decodeBody(c echo.Context, v any) error {
	err := json.NewDecoder(c.Request().Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	})
}

// errorResponse converts a service error into an echo HTTP error.
func errorResponse(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// Welcome godoc
// @Summary Welcome message
// @Tags meta
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func Welcome(c echo.Context) error {
	return c.String(http.StatusOK, "Welcome to Task Management API!")
}
