package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campneus/cofre/internal/core/ports"
)

type DashboardHandler struct {
	stats ports.StatsService
}

func NewDashboardHandler(stats ports.StatsService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Stats returns the aggregate dashboard figures.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	stats, err := h.stats.Dashboard(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
