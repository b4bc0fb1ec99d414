package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

type fakePrinters struct{ list []*entity.Printer }

func (f *fakePrinters) Create(_ context.Context, p *entity.Printer) error {
	f.list = append(f.list, p)
	return nil
}
func (f *fakePrinters) List(_ context.Context, customerID string) ([]*entity.Printer, error) {
	var out []*entity.Printer
	for _, p := range f.list {
		if customerID == "" || p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTransports struct{ list []*entity.Transport }

func (f *fakeTransports) Create(_ context.Context, t *entity.Transport) error {
	f.list = append(f.list, t)
	return nil
}
func (f *fakeTransports) List(context.Context) ([]*entity.Transport, error) { return f.list, nil }

type fakeUsers struct {
	repository.UserRepository
	list []*entity.User
}

func (f *fakeUsers) List(_ context.Context, role string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.list {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeCustomers struct {
	repository.CustomerRepository
	byID map[string]*entity.Customer
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return f.byID[id], nil
}

func newUseCase() (*UseCase, *fakePrinters) {
	printers := &fakePrinters{}
	users := &fakeUsers{list: []*entity.User{
		{ID: "op-1", Name: "Ana", Role: entity.RoleOperador, Status: "active"},
		{ID: "op-2", Name: "Beto", Role: entity.RoleOperador, Status: "inactive"},
		{ID: "adm", Name: "Root", Role: entity.RoleAdmin, Status: "active"},
	}}
	customers := &fakeCustomers{byID: map[string]*entity.Customer{"c-1": {ID: "c-1"}}}
	return NewUseCase(printers, &fakeTransports{}, users, customers), printers
}

func TestCreatePrinter_Guarda(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	p, err := uc.CreatePrinter(ctx, dto.CreatePrinterRequest{CustomerID: "c-1", Name: " Bobst 1 ", Colors: 4})
	require.NoError(t, err)
	assert.Equal(t, "Bobst 1", p.Name)

	_, err = uc.CreatePrinter(ctx, dto.CreatePrinterRequest{CustomerID: "c-9", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListPrinters(ctx, "c-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTransports_CreaYLista(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateTransport(ctx, dto.CreateTransportRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateTransport(ctx, dto.CreateTransportRequest{Name: "Rodonaves"})
	require.NoError(t, err)
	list, err := uc.ListTransports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rodonaves", list[0].Name)
}

func TestListOperators_SoloOperadoresActivos(t *testing.T) {
	uc, _ := newUseCase()
	ops, err := uc.ListOperators(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.OptionDTO{{Value: "op-1", Label: "Ana"}}, ops)
}
