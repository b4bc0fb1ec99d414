package wizard

import (
	"context"
	"time"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
)

// Draft sesión del asistente: el formulario plano y el paso actual.
type Draft struct {
	ID            string               `json:"id"`
	Mode          string               `json:"mode"`
	SourceOrderID string               `json:"sourceOrderId,omitempty"`
	OwnerID       string               `json:"ownerId"`
	Step          serviceorder.StepKey `json:"step"`
	Form          *serviceorder.Form   `json:"form"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// DraftStore persiste borradores y la marca de envío en curso.
// Get devuelve (nil, nil) si el borrador no existe o expiró.
type DraftStore interface {
	Save(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
	// TryLock activa la marca de envío; false si ya estaba activa.
	TryLock(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, id string) error
	Locked(ctx context.Context, id string) (bool, error)
}

// OrderService persistencia de órdenes usada por el envío.
type OrderService interface {
	GetEntity(ctx context.Context, id string) (*entity.ServiceOrder, error)
	Create(ctx context.Context, userID string, p serviceorder.Payload, files order.Uploads) (*dto.ServiceOrderResponse, error)
	Update(ctx context.Context, id string, p serviceorder.Payload, files order.Uploads) (*dto.ServiceOrderResponse, error)
}
