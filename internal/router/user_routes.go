package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/handler"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// RegisterUser registers the reservation lifecycle endpoints under
// /v1.  Both roles may call them: regular users act on their own
// reservations, admins on anyone's.
func RegisterUser(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.POST("/reservations", h.Reserve)
	g.POST("/reservations/:id/check-in", h.CheckIn)
	g.POST("/reservations/:id/check-out", h.CheckOut)
	g.DELETE("/reservations/:id", h.Cancel)
	g.GET("/my-reservations", h.MyReservations)
}
