package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/core/ports"
)

type refreshRequest struct {
	ProjectIDs []string `json:"projectIds"`
}

type refreshResponse struct {
	Queued int `json:"queued"`
}

// AdminHandler serves the platform dashboard and batch refresh.
type AdminHandler struct {
	stats   ports.StatsService
	refresh ports.RefreshService
}

func NewAdminHandler(stats ports.StatsService, refresh ports.RefreshService) *AdminHandler {
	return &AdminHandler{stats: stats, refresh: refresh}
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Platform statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.PlatformStats
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.stats.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Refresh handles POST /api/admin/analyses/refresh. An empty body refreshes
// every project.
//
// @Summary      Queue analysis runs
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      refreshRequest  false  "Projects to refresh"
// @Success      202   {object}  refreshResponse
// @Router       /api/admin/analyses/refresh [post]
func (h *AdminHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	n, err := h.refresh.Refresh(c.Request().Context(), req.ProjectIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, refreshResponse{Queued: n})
}
