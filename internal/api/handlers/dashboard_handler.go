package handlers

import (
	"zipli-backend/domain"
	"zipli-backend/internal/api/presenters"
	"zipli-backend/pkg/dashboard"

	"github.com/gofiber/fiber/v2"
)

type (
	DashboardHandler interface {
		GetDashboard(c *fiber.Ctx) error
	}

	dashboardHandler struct {
		selector *dashboard.Selector
	}
)

func NewDashboardHandler(selector *dashboard.Selector) DashboardHandler {
	return &dashboardHandler{selector: selector}
}

// GetDashboard always answers 200; a failed list read shows up inside the
// view as its error state.
func (h *dashboardHandler) GetDashboard(c *fiber.Ctx) error {
	view, _ := h.selector.Render(c.UserContext(), sessionFrom(c))
	return presenters.SuccessResponse(c, view, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}
