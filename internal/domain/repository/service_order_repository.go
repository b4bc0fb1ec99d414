package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// ServiceOrderFilter criterios del listado de órdenes.
type ServiceOrderFilter struct {
	CustomerID  string
	OperatorID  string
	Product     entity.Product
	ProductType entity.ProductType
	Status      entity.Status
	From        *time.Time // entry_date >= From
	To          *time.Time // entry_date <= To
	Search      string     // título o número
	Limit       int
	Offset      int
}

// ServiceOrderRepository define el puerto de persistencia para ServiceOrder.
type ServiceOrderRepository interface {
	// Create persiste la orden y completa Number con el consecutivo asignado.
	Create(ctx context.Context, order *entity.ServiceOrder) error
	Update(ctx context.Context, order *entity.ServiceOrder) error
	GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error)
	List(ctx context.Context, filter ServiceOrderFilter) ([]*entity.ServiceOrder, int, error)
	UpdateStatus(ctx context.Context, id string, status entity.Status, at time.Time) error
	// LinkInvoice marca la orden como facturada con número de NF y fecha.
	LinkInvoice(ctx context.Context, id, invoiceID, nfNumber string, billingDate time.Time) error
	// ListDispatchOverdue órdenes abiertas o en producción con despacho anterior a `before`.
	ListDispatchOverdue(ctx context.Context, before time.Time) ([]*entity.ServiceOrder, error)
}
