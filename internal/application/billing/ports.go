package billing

import (
	"context"

	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta una función dentro de una transacción con los repos
// de órdenes y notas fiscales.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		orderRepo repository.ServiceOrderRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}
