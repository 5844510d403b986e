package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/report"
	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// AdminRevenueHandler serves the admin revenue summary and its
// spreadsheet export.
type AdminRevenueHandler struct {
	Reservations *repository.ReservationRepo
}

func NewAdminRevenueHandler(res *repository.ReservationRepo) *AdminRevenueHandler {
	return &AdminRevenueHandler{Reservations: res}
}

// Summary returns per-lot completed-reservation counts and revenue.
func (h *AdminRevenueHandler) Summary(c echo.Context) error {
	rows, err := h.Reservations.RevenueByLot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if rows == nil {
		rows = []repository.LotRevenue{}
	}
	return c.JSON(http.StatusOK, echo.Map{"revenue": rows})
}

// Export streams the revenue workbook as an .xlsx attachment.
func (h *AdminRevenueHandler) Export(c echo.Context) error {
	ctx := c.Request().Context()
	summary, err := h.Reservations.RevenueByLot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	completed, err := h.Reservations.ListCompleted(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	f, err := report.RevenueWorkbook(summary, completed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build workbook failed"})
	}

	filename := "revenue-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
