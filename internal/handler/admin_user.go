package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/middleware"
	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// AdminUserHandler serves the admin's user management views.
type AdminUserHandler struct {
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
}

func NewAdminUserHandler(users *repository.UserRepo, res *repository.ReservationRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: users, Reservations: res}
}

type userSummary struct {
	ID               uint64    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	Reservations     int       `json:"reservations"`
	LiveReservations int       `json:"live_reservations"`
}

// ListUsers returns every account with its reservation counts.
func (h *AdminUserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		total, live, err := h.Reservations.CountByUser(ctx, u.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		out = append(out, userSummary{
			ID:               u.ID,
			Username:         u.Username,
			Email:            u.Email,
			Role:             u.Role,
			IsActive:         u.IsActive,
			CreatedAt:        u.CreatedAt,
			Reservations:     total,
			LiveReservations: live,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// DeleteUser removes an account.  Admins cannot delete themselves, and
// accounts with live reservations must settle them first.
func (h *AdminUserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == middleware.UserID(c) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account"})
	}
	ctx := c.Request().Context()
	_, live, err := h.Reservations.CountByUser(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if live > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user has live reservations"})
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
