package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/weshowyou-tours/internal/booking"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
	"github.com/iliyamo/weshowyou-tours/internal/validation"
)

// respondError maps domain errors onto status codes. Anything it does not
// recognise is a 500 with fallback as the message.
func respondError(c echo.Context, err error, fallback string) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	case errors.Is(err, booking.ErrDraftNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	case errors.Is(err, booking.ErrSubmitInProgress):
		return c.JSON(http.StatusConflict, echo.Map{"error": "submission already in progress"})
	case errors.Is(err, booking.ErrFormNotOpen):
		return c.JSON(http.StatusConflict, echo.Map{"error": "form is not open"})
	case errors.Is(err, booking.ErrUnknownField):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown field"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "timed out"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}
