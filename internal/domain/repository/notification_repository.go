package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para alertas.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
	// ExistsSince indica si ya hay una alerta del tipo para la orden desde `since`.
	ExistsSince(ctx context.Context, kind, serviceOrderID string, since time.Time) (bool, error)
}
