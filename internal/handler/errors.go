package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/booking"
)

// bookingError translates engine sentinels to HTTP responses.  Every
// handler that calls into the engine funnels its error through here so
// status codes stay consistent across endpoints.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input"})
	case errors.Is(err, booking.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, booking.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no spots available"})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid reservation state"})
	case errors.Is(err, booking.ErrLotNotEmpty):
		return c.JSON(http.StatusConflict, echo.Map{"error": "lot has active reservations or occupied spots"})
	case errors.Is(err, booking.ErrSpotsOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"error": "spot is occupied or has reservation history"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
