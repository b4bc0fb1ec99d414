package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
	"github.com/jhoicas/Clicheria-api/pkg/brnum"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
)

// InvoiceUseCase vincula órdenes despachadas a una nota fiscal.
type InvoiceUseCase struct {
	txRunner     InvoiceTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner InvoiceTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		log:          log.Component("billing"),
	}
}

// Create registra la nota fiscal y, en la misma transacción, marca cada orden
// como facturada (número de NF, fecha y estado INVOICED). El total es la suma
// del precio total de las órdenes.
//
// Retorna:
//   - domain.ErrDuplicate         si el número de NF ya existe.
//   - domain.ErrNotFound          si el cliente o alguna orden no existe.
//   - domain.ErrInvalidTransition si alguna orden no está despachada.
//   - *domain.ValidationError     si una orden pertenece a otro cliente.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	in.NfNumber = strings.TrimSpace(in.NfNumber)
	if in.NfNumber == "" || len(in.ServiceOrderIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	issue, err := serviceorder.ParseDate(in.IssueDate)
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("issueDate", "fecha inválida (AAAA-MM-DD)")
		return nil, verr
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	dup, err := uc.invoiceRepo.GetByNfNumber(ctx, in.NfNumber)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, domain.ErrDuplicate
	}

	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		NfNumber:        in.NfNumber,
		CustomerID:      customer.ID,
		IssueDate:       issue.Time,
		Total:           decimal.Zero,
		PurchaseOrders:  serviceorder.SplitList(in.PurchaseOrder),
		ServiceOrderIDs: unique(in.ServiceOrderIDs),
		CreatedBy:       userID,
		CreatedAt:       time.Now(),
	}

	err = uc.txRunner.RunInvoice(ctx, func(orderRepo repository.ServiceOrderRepository, invoiceRepo repository.InvoiceRepository) error {
		for _, id := range inv.ServiceOrderIDs {
			o, err := orderRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if o == nil {
				return fmt.Errorf("orden %s: %w", id, domain.ErrNotFound)
			}
			if o.CustomerID != customer.ID && o.ExternalCustomerID != customer.ID {
				verr := domain.NewValidationError()
				verr.Add("serviceOrderIds", fmt.Sprintf("la OS #%d pertenece a otro cliente", o.Number))
				return verr
			}
			if !o.Status.CanTransition(entity.StatusInvoiced) {
				return fmt.Errorf("OS #%d en estado %s: %w", o.Number, o.Status, domain.ErrInvalidTransition)
			}
			if o.TotalPrice.Valid {
				inv.Total = inv.Total.Add(o.TotalPrice.Decimal)
			}
			inv.PurchaseOrders = mergeUnique(inv.PurchaseOrders, o.PurchaseOrders)
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, id := range inv.ServiceOrderIDs {
			if err := orderRepo.LinkInvoice(ctx, id, inv.ID, inv.NfNumber, inv.IssueDate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("nf_number", inv.NfNumber).
		Int("orders", len(inv.ServiceOrderIDs)).
		Str("total", inv.Total.StringFixed(2)).
		Msg("nota fiscal registrada")
	return toInvoiceResponse(inv), nil
}

// Get devuelve una nota fiscal por id.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// List lista notas fiscales, opcionalmente de un cliente.
func (uc *InvoiceUseCase) List(ctx context.Context, customerID string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.List(ctx, customerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:              inv.ID,
		NfNumber:        inv.NfNumber,
		CustomerID:      inv.CustomerID,
		IssueDate:       inv.IssueDate.Format(serviceorder.DateLayout),
		Total:           inv.Total,
		TotalLabel:      brnum.Currency(inv.Total),
		PurchaseOrders:  inv.PurchaseOrders,
		ServiceOrderIDs: inv.ServiceOrderIDs,
		CreatedAt:       inv.CreatedAt,
	}
}

func unique(ids []string) []string {
	return mergeUnique(nil, ids)
}

// mergeUnique agrega a dst los valores no vacíos de src que aún no estén.
func mergeUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		dst = append(dst, v)
	}
	if dst == nil {
		dst = []string{}
	}
	return dst
}
