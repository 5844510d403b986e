package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/booking"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
	"github.com/iliyamo/vehicle-parking/internal/model"
	"github.com/iliyamo/vehicle-parking/internal/queue"
	"github.com/iliyamo/vehicle-parking/internal/repository"
	queue_publisher "github.com/iliyamo/vehicle-parking/internal/service"
)

// ReservationHandler drives the reservation lifecycle over HTTP.  All
// state changes go through the engine; this layer binds requests, maps
// sentinel errors to status codes and emits queue events after commit.
type ReservationHandler struct {
	Engine       *booking.Engine
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(eng *booking.Engine, res *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Engine: eng, Reservations: res}
}

type reserveReq struct {
	LotID         uint64 `json:"lot_id"`
	Date          string `json:"date"` // YYYY-MM-DD, defaults to today
	VehicleNumber string `json:"vehicle_number"`
}

// Reserve books the lowest-numbered free spot in the lot for a date.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	day := time.Now().UTC()
	if req.Date != "" {
		var err error
		day, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
	}

	res, err := h.Engine.Reserve(c.Request().Context(), req.LotID, middleware.UserID(c), day, req.VehicleNumber)
	if err != nil {
		return bookingError(c, err)
	}

	h.publish(c, res, queue.KindBooked)
	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// CheckIn marks arrival on an upcoming reservation.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.CheckIn(c.Request().Context(), id, middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// CheckOut marks departure, bills the stay and frees the spot.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.CheckOut(c.Request().Context(), id, middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return bookingError(c, err)
	}
	h.publish(c, res, queue.KindClosed)
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Cancel aborts an upcoming or active reservation.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Engine.Cancel(c.Request().Context(), id, middleware.UserID(c), middleware.IsAdmin(c)); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyReservations lists the caller's reservations with lot and spot
// details, newest first.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	list, err := h.Reservations.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if list == nil {
		list = []repository.ReservationDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// publish emits a reservation event, best-effort.  The reservation is
// already committed, so a broker outage only costs the log line.
func (h *ReservationHandler) publish(c echo.Context, res model.Reservation, kind string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ev := queue.ReservationEvent{
			Kind:          kind,
			ReservationID: res.ID,
			UserID:        res.UserID,
			SpotID:        res.SpotID,
			VehicleNumber: res.VehicleNumber,
			Status:        res.Status,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if res.Cost != nil {
			ev.Cost = *res.Cost
		}
		// Enrich with lot and spot details when the lookup succeeds.
		if d, err := h.Reservations.GetDetail(ctx, res.ID); err == nil {
			ev.LotID = d.LotID
			ev.LotName = d.LotName
			ev.SpotNo = d.SpotNo
		}
		_ = queue_publisher.PublishReservationEvent(ctx, ev)
	}()
}
