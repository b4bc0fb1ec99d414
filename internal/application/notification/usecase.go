// Package notification gestiona las alertas consultadas por polling y el
// programador que genera alertas de despacho vencido.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
)

const (
	defaultPollLimit = 50
	maxPollLimit     = 200
)

// UseCase casos de uso de notificaciones.
type UseCase struct {
	repo   repository.NotificationRepository
	orders repository.ServiceOrderRepository
	users  repository.UserRepository
	log    *logger.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	repo repository.NotificationRepository,
	orders repository.ServiceOrderRepository,
	users repository.UserRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{repo: repo, orders: orders, users: users, log: log.Component("notification"), now: time.Now}
}

// Notify crea una alerta para el usuario.
func (uc *UseCase) Notify(ctx context.Context, userID, kind, title, message, serviceOrderID string) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	n := &entity.Notification{
		ID:             uuid.New().String(),
		UserID:         userID,
		Kind:           kind,
		Title:          title,
		Message:        message,
		ServiceOrderID: serviceOrderID,
		CreatedAt:      uc.now(),
	}
	return uc.repo.Create(ctx, n)
}

// Poll devuelve las alertas del usuario, más recientes primero.
func (uc *UseCase) Poll(ctx context.Context, userID string, unreadOnly bool, limit int) ([]dto.NotificationResponse, error) {
	if limit <= 0 {
		limit = defaultPollLimit
	}
	if limit > maxPollLimit {
		limit = maxPollLimit
	}
	list, err := uc.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.NotificationResponse{
			ID:             n.ID,
			Kind:           n.Kind,
			Title:          n.Title,
			Message:        n.Message,
			ServiceOrderID: n.ServiceOrderID,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead marca una alerta propia como leída. Es idempotente.
func (uc *UseCase) MarkRead(ctx context.Context, userID, id string) error {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	if n.UserID != userID {
		return domain.ErrForbidden
	}
	if n.Read {
		return nil
	}
	return uc.repo.MarkRead(ctx, id)
}

// CheckOverdue genera alertas DISPATCH_OVERDUE para órdenes abiertas cuya
// fecha de despacho ya pasó. Como máximo una alerta por orden y día. Las
// órdenes sin operador alertan a los administradores.
func (uc *UseCase) CheckOverdue(ctx context.Context) (int, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	orders, err := uc.orders.ListDispatchOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("listar despachos vencidos: %w", err)
	}
	var admins []string
	created := 0
	for _, o := range orders {
		if o.DispatchDate == nil {
			continue
		}
		exists, err := uc.repo.ExistsSince(ctx, entity.NotificationDispatchOverdue, o.ID, today)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		recipients := []string{o.OperatorID}
		if o.OperatorID == "" {
			if admins == nil {
				if admins, err = uc.users.ListIDsByRole(ctx, entity.RoleAdmin); err != nil {
					return created, err
				}
			}
			recipients = admins
		}
		title := fmt.Sprintf("Despacho atrasado OS #%d", o.Number)
		msg := fmt.Sprintf("%s: despacho previsto para %s", o.Title, o.DispatchDate.Format("02/01/2006"))
		for _, uid := range recipients {
			if err := uc.Notify(ctx, uid, entity.NotificationDispatchOverdue, title, msg, o.ID); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
