package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/handler"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// RegisterAdmin registers lot, spot, user and revenue administration
// under /v1/admin.  Every route requires the admin role.
func RegisterAdmin(e *echo.Echo, lots *handler.AdminLotHandler, users *handler.AdminUserHandler, revenue *handler.AdminRevenueHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.POST("/lots", lots.CreateLot)
	g.PUT("/lots/:id", lots.EditLot)
	g.DELETE("/lots/:id", lots.DeleteLot)
	g.POST("/lots/:id/spots", lots.AddSpot)
	g.DELETE("/spots/:spotId", lots.RemoveSpot)
	g.GET("/spots/:spotId/history", lots.SpotHistory)
	g.GET("/reservations", lots.AllReservations)

	g.GET("/users", users.ListUsers)
	g.DELETE("/users/:id", users.DeleteUser)

	g.GET("/revenue", revenue.Summary)
	g.GET("/revenue/export", revenue.Export)
}
