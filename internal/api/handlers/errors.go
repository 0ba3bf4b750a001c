package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/domain"
)

// writeError translates the domain error taxonomy into an HTTP status and a
// JSON body. The detail string comes from the wrapped error; the core never
// renders user-facing text beyond that.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidBid),
		errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
