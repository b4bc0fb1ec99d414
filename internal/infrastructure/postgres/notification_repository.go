package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, user_id, kind, title, message, service_order_id, read, created_at`

// NotificationRepo implementación de NotificationRepository.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una alerta.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, kind, title, message, service_order_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.UserID, n.Kind, n.Title, n.Message, nullIfEmpty(n.ServiceOrderID), n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser alertas del usuario, más recientes primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// GetByID obtiene una alerta por ID.
func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	n, err := scanNotification(r.q.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

// MarkRead marca la alerta como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsSince indica si ya se generó una alerta del tipo para la orden desde since.
func (r *NotificationRepo) ExistsSince(ctx context.Context, kind, serviceOrderID string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE kind = $1 AND service_order_id = $2 AND created_at >= $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, kind, serviceOrderID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists notification: %w", err)
	}
	return exists, nil
}

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var (
		n       entity.Notification
		orderID *string
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &orderID, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.ServiceOrderID = stringOrEmpty(orderID)
	return &n, nil
}
