package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
)

type fakeCustomers struct{ byID map[string]*entity.Customer }

func (f *fakeCustomers) Create(_ context.Context, c *entity.Customer) error {
	f.byID[c.ID] = c
	return nil
}
func (f *fakeCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return f.byID[id], nil
}
func (f *fakeCustomers) GetByTaxID(_ context.Context, taxID string) (*entity.Customer, error) {
	for _, c := range f.byID {
		if c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeCustomers) List(context.Context, string, int, int) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}
func (f *fakeCustomers) Update(_ context.Context, c *entity.Customer) error {
	f.byID[c.ID] = c
	return nil
}

type fakeInvoices struct{ byID map[string]*entity.Invoice }

func (f *fakeInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	f.byID[inv.ID] = inv
	return nil
}
func (f *fakeInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return f.byID[id], nil
}
func (f *fakeInvoices) GetByNfNumber(_ context.Context, nf string) (*entity.Invoice, error) {
	for _, inv := range f.byID {
		if inv.NfNumber == nf {
			return inv, nil
		}
	}
	return nil, nil
}
func (f *fakeInvoices) List(context.Context, string, int, int) ([]*entity.Invoice, error) {
	return nil, nil
}

type fakeOrders struct {
	repository.ServiceOrderRepository
	byID   map[string]*entity.ServiceOrder
	linked map[string]string
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*entity.ServiceOrder, error) {
	return f.byID[id], nil
}

func (f *fakeOrders) LinkInvoice(_ context.Context, id, invoiceID, nf string, at time.Time) error {
	o := f.byID[id]
	o.InvoiceID = invoiceID
	o.NfNumber = nf
	o.BillingDate = &at
	o.Status = entity.StatusInvoiced
	f.linked[id] = invoiceID
	return nil
}

// fakeTx aplica los cambios solo si fn no falla.
type fakeTx struct {
	orders   *fakeOrders
	invoices *fakeInvoices
}

func (tx *fakeTx) RunInvoice(ctx context.Context, fn func(repository.ServiceOrderRepository, repository.InvoiceRepository) error) error {
	stagedOrders := &fakeOrders{byID: map[string]*entity.ServiceOrder{}, linked: map[string]string{}}
	for id, o := range tx.orders.byID {
		c := *o
		stagedOrders.byID[id] = &c
	}
	stagedInvoices := &fakeInvoices{byID: map[string]*entity.Invoice{}}
	for id, inv := range tx.invoices.byID {
		stagedInvoices.byID[id] = inv
	}
	if err := fn(stagedOrders, stagedInvoices); err != nil {
		return err
	}
	tx.orders.byID = stagedOrders.byID
	tx.orders.linked = stagedOrders.linked
	tx.invoices.byID = stagedInvoices.byID
	return nil
}

func priced(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func newInvoiceFixture() (*InvoiceUseCase, *fakeTx) {
	customers := &fakeCustomers{byID: map[string]*entity.Customer{
		"c-1": {ID: "c-1", Name: "Embalagens Sul", TaxID: "12345678000199"},
		"c-2": {ID: "c-2", Name: "Outro", TaxID: "99"},
	}}
	orders := &fakeOrders{linked: map[string]string{}, byID: map[string]*entity.ServiceOrder{
		"so-1": {ID: "so-1", Number: 1, CustomerID: "c-1", Status: entity.StatusDispatched, TotalPrice: priced("100.50"), PurchaseOrders: []string{"OC-1"}},
		"so-2": {ID: "so-2", Number: 2, CustomerID: "x", ExternalCustomerID: "c-1", Status: entity.StatusDispatched, TotalPrice: priced("200")},
		"so-3": {ID: "so-3", Number: 3, CustomerID: "c-1", Status: entity.StatusOpen},
		"so-4": {ID: "so-4", Number: 4, CustomerID: "c-2", Status: entity.StatusDispatched},
	}}
	invoices := &fakeInvoices{byID: map[string]*entity.Invoice{}}
	tx := &fakeTx{orders: orders, invoices: invoices}
	return NewInvoiceUseCase(tx, invoices, customers, logger.Nop()), tx
}

func TestInvoiceCreate_VinculaOrdenes(t *testing.T) {
	uc, tx := newInvoiceFixture()
	resp, err := uc.Create(context.Background(), "fin-1", dto.CreateInvoiceRequest{
		NfNumber: "NF-100", CustomerID: "c-1", IssueDate: "2026-10-10",
		ServiceOrderIDs: []string{"so-1", "so-2", "so-1"}, PurchaseOrder: "OC-2, OC-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "300.5", resp.Total.String())
	assert.Equal(t, "R$ 300,50", resp.TotalLabel)
	assert.Equal(t, []string{"so-1", "so-2"}, resp.ServiceOrderIDs)
	assert.Equal(t, []string{"OC-2", "OC-1"}, resp.PurchaseOrders)

	so1 := tx.orders.byID["so-1"]
	assert.Equal(t, entity.StatusInvoiced, so1.Status)
	assert.Equal(t, "NF-100", so1.NfNumber)
	assert.Equal(t, "2026-10-10", so1.BillingDate.Format("2006-01-02"))
	assert.Equal(t, resp.ID, so1.InvoiceID)
}

func TestInvoiceCreate_RevierteSiNoDespachada(t *testing.T) {
	uc, tx := newInvoiceFixture()
	_, err := uc.Create(context.Background(), "fin-1", dto.CreateInvoiceRequest{
		NfNumber: "NF-101", CustomerID: "c-1", IssueDate: "2026-10-10",
		ServiceOrderIDs: []string{"so-1", "so-3"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.StatusDispatched, tx.orders.byID["so-1"].Status)
	assert.Empty(t, tx.invoices.byID)
}

func TestInvoiceCreate_OtroCliente(t *testing.T) {
	uc, _ := newInvoiceFixture()
	_, err := uc.Create(context.Background(), "fin-1", dto.CreateInvoiceRequest{
		NfNumber: "NF-102", CustomerID: "c-1", IssueDate: "2026-10-10",
		ServiceOrderIDs: []string{"so-4"},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "serviceOrderIds")
}

func TestInvoiceCreate_Duplicada(t *testing.T) {
	uc, _ := newInvoiceFixture()
	req := dto.CreateInvoiceRequest{NfNumber: "NF-103", CustomerID: "c-1", IssueDate: "2026-10-10", ServiceOrderIDs: []string{"so-1"}}
	_, err := uc.Create(context.Background(), "fin-1", req)
	require.NoError(t, err)

	req.ServiceOrderIDs = []string{"so-2"}
	_, err = uc.Create(context.Background(), "fin-1", req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestInvoiceCreate_FechaInvalidaYOrdenInexistente(t *testing.T) {
	uc, _ := newInvoiceFixture()
	_, err := uc.Create(context.Background(), "fin-1", dto.CreateInvoiceRequest{
		NfNumber: "NF-104", CustomerID: "c-1", IssueDate: "10/10/2026", ServiceOrderIDs: []string{"so-1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "fin-1", dto.CreateInvoiceRequest{
		NfNumber: "NF-104", CustomerID: "c-1", IssueDate: "2026-10-10", ServiceOrderIDs: []string{"so-9"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerCreate_NormalizaDocumento(t *testing.T) {
	repo := &fakeCustomers{byID: map[string]*entity.Customer{}}
	uc := NewCustomerUseCase(repo)

	resp, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: " Gráfica Azul ", TaxID: "12.345.678/0001-99"})
	require.NoError(t, err)
	assert.Equal(t, "12345678000199", resp.TaxID)
	assert.Equal(t, "Gráfica Azul", resp.Name)

	_, err = uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "Otra", TaxID: "12345678000199"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCustomerUpdate_DocumentoDuplicado(t *testing.T) {
	repo := &fakeCustomers{byID: map[string]*entity.Customer{
		"c-1": {ID: "c-1", Name: "A", TaxID: "1"},
		"c-2": {ID: "c-2", Name: "B", TaxID: "2"},
	}}
	uc := NewCustomerUseCase(repo)

	_, err := uc.Update(context.Background(), "c-1", dto.CreateCustomerRequest{Name: "A", TaxID: "2"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	resp, err := uc.Update(context.Background(), "c-1", dto.CreateCustomerRequest{Name: "A2", TaxID: "1", City: "Curitiba"})
	require.NoError(t, err)
	assert.Equal(t, "Curitiba", resp.City)

	_, err = uc.Update(context.Background(), "nope", dto.CreateCustomerRequest{Name: "x", TaxID: "3"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
