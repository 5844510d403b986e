package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/booking"
	"github.com/iliyamo/vehicle-parking/internal/model"
	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// BrowseHandler serves the public lot discovery endpoints.  These sit
// behind the response cache, so the queries stay read-only.
type BrowseHandler struct {
	Lots   *repository.LotRepo
	Engine *booking.Engine
}

func NewBrowseHandler(lots *repository.LotRepo, eng *booking.Engine) *BrowseHandler {
	return &BrowseHandler{Lots: lots, Engine: eng}
}

// ListLots returns all lots, optionally filtered by ?q= against name,
// address or pin code.
func (h *BrowseHandler) ListLots(c echo.Context) error {
	lots, err := h.Lots.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if lots == nil {
		lots = []model.ParkingLot{}
	}
	return c.JSON(http.StatusOK, echo.Map{"lots": lots})
}

// GetLot returns a single lot with its spots.
func (h *BrowseHandler) GetLot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	ctx := c.Request().Context()
	lot, err := h.Lots.GetByID(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	spots, err := h.Lots.SpotsByLot(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lot": lot, "spots": spots})
}

// Availability reports how many spots remain free in a lot for a date.
// The date comes from ?date=YYYY-MM-DD and defaults to today.
func (h *BrowseHandler) Availability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	day := time.Now().UTC()
	if ds := c.QueryParam("date"); ds != "" {
		day, err = time.Parse("2006-01-02", ds)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
	}
	avail, err := h.Engine.ListAvailability(c.Request().Context(), id, day)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"lot_id":          id,
		"date":            booking.DateOf(day).Format("2006-01-02"),
		"total_spots":     avail.TotalSpots,
		"available_spots": avail.AvailableSpots,
	})
}
