package repository

import (
	"context"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// PrinterRepository catálogo de impresoras/máquinas de clientes.
type PrinterRepository interface {
	Create(ctx context.Context, printer *entity.Printer) error
	List(ctx context.Context, customerID string) ([]*entity.Printer, error)
}

// TransportRepository catálogo de transportadoras.
type TransportRepository interface {
	Create(ctx context.Context, transport *entity.Transport) error
	List(ctx context.Context) ([]*entity.Transport, error)
}
