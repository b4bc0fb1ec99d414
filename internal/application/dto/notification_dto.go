package dto

import "time"

// NotificationResponse alerta en respuestas del polling.
type NotificationResponse struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ServiceOrderID string    `json:"serviceOrderId,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}
