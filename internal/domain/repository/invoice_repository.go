package repository

import (
	"context"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNfNumber(ctx context.Context, nfNumber string) (*entity.Invoice, error)
	List(ctx context.Context, customerID string, limit, offset int) ([]*entity.Invoice, error)
}
