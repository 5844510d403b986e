package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/booking"
	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// AdminLotHandler exposes lot and spot administration.  Every route it
// serves sits behind JWTAuth plus RequireRole("admin").
type AdminLotHandler struct {
	Engine       *booking.Engine
	Lots         *repository.LotRepo
	Reservations *repository.ReservationRepo
}

func NewAdminLotHandler(eng *booking.Engine, lots *repository.LotRepo, res *repository.ReservationRepo) *AdminLotHandler {
	return &AdminLotHandler{Engine: eng, Lots: lots, Reservations: res}
}

type lotReq struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	PinCode    string  `json:"pin_code"`
	PricePerHr float64 `json:"price_per_hr"`
	MaxSpots   int     `json:"max_spots"`
}

func (r lotReq) input() booking.LotInput {
	return booking.LotInput{
		Name:       r.Name,
		Address:    r.Address,
		PinCode:    r.PinCode,
		PricePerHr: r.PricePerHr,
		MaxSpots:   r.MaxSpots,
	}
}

// CreateLot creates a lot and materializes its spots.
func (h *AdminLotHandler) CreateLot(c echo.Context) error {
	var req lotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	lot, err := h.Engine.CreateLot(c.Request().Context(), req.input())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"lot": lot})
}

// EditLot updates lot fields and resizes the spot pool.
func (h *AdminLotHandler) EditLot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	var req lotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	lot, err := h.Engine.EditLot(c.Request().Context(), id, req.input())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lot": lot})
}

// DeleteLot removes a drained lot and everything under it.
func (h *AdminLotHandler) DeleteLot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	if err := h.Engine.DeleteLot(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSpot appends one spot to the lot.
func (h *AdminLotHandler) AddSpot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	spotNo, err := h.Engine.AddSpot(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"lot_id": id, "spot_no": spotNo})
}

// RemoveSpot deletes one never-reserved spot.
func (h *AdminLotHandler) RemoveSpot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("spotId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	if err := h.Engine.RemoveSpot(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SpotHistory lists every reservation ever made against a spot.
func (h *AdminLotHandler) SpotHistory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("spotId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	list, err := h.Reservations.HistoryBySpot(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if list == nil {
		list = []repository.ReservationDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"spot_id": id, "history": list})
}

// AllReservations lists every reservation in the system.
func (h *AdminLotHandler) AllReservations(c echo.Context) error {
	list, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if list == nil {
		list = []repository.ReservationDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}
