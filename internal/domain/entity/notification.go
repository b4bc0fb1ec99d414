package entity

import "time"

// Tipos de notificación.
const (
	NotificationOrderCreated    = "ORDER_CREATED"
	NotificationDispatchOverdue = "DISPATCH_OVERDUE"
)

// Notification alerta dirigida a un usuario (consultada por polling).
type Notification struct {
	ID             string
	UserID         string
	Kind           string
	Title          string
	Message        string
	ServiceOrderID string
	Read           bool
	CreatedAt      time.Time
}
