package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/analytics"
)

// DashboardHandler resumen anual de producción y facturación.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen anual (órdenes por mes, estado y clientes)
// @Tags         dashboard
// @Produce      json
// @Param        year  query     int  false  "año (por defecto el actual)"
// @Success      200   {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())
	out, err := h.uc.GetSummary(c.UserContext(), year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
