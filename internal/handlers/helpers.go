package handlers

import (
	"errors"
	"net/http"

	"github.com/hieulm/writeuphub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// httpError translates a service error into a caller-visible HTTP error. The
// stable kind tag picks the status; the message is already caller-safe.
// Anything untagged collapses to a generic server failure.
func httpError(err error) error {
	kind := services.KindOf(err)
	status := http.StatusInternalServerError
	message := "internal server error"

	switch kind {
	case services.KindUnauthenticated:
		status = http.StatusUnauthorized
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindInvalidInput:
		status = http.StatusBadRequest
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindStoreUnavailable:
		status = http.StatusServiceUnavailable
		return echo.NewHTTPError(status, "storage temporarily unavailable")
	}

	var e *services.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	return echo.NewHTTPError(status, message)
}
