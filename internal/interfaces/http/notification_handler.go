package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/notification"
)

const defaultNotificationLimit = 20

// NotificationHandler notificaciones in-app (consulta por sondeo).
type NotificationHandler struct {
	uc *notification.UseCase
}

func NewNotificationHandler(uc *notification.UseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List GET /api/notifications?unread=true&limit=20
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultNotificationLimit)
	if limit <= 0 || limit > 100 {
		limit = defaultNotificationLimit
	}
	out, err := h.uc.Poll(c.UserContext(), GetUserID(c), c.QueryBool("unread", false), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkRead PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
