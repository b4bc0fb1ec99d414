// Package catalog expone los datos de referencia de las listas de selección del
// asistente: impresoras, transportadoras y operadores.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

// operatorsLimit tope de operadores devueltos en la lista de selección.
const operatorsLimit = 200

// UseCase casos de uso de catálogos.
type UseCase struct {
	printers   repository.PrinterRepository
	transports repository.TransportRepository
	users      repository.UserRepository
	customers  repository.CustomerRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	printers repository.PrinterRepository,
	transports repository.TransportRepository,
	users repository.UserRepository,
	customers repository.CustomerRepository,
) *UseCase {
	return &UseCase{printers: printers, transports: transports, users: users, customers: customers}
}

// CreatePrinter registra una impresora de un cliente.
func (uc *UseCase) CreatePrinter(ctx context.Context, in dto.CreatePrinterRequest) (*dto.PrinterResponse, error) {
	c, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	p := &entity.Printer{
		ID:         uuid.New().String(),
		CustomerID: c.ID,
		Name:       strings.TrimSpace(in.Name),
		Model:      strings.TrimSpace(in.Model),
		Colors:     in.Colors,
		CreatedAt:  time.Now(),
	}
	if p.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.printers.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPrinterResponse(p), nil
}

// ListPrinters lista impresoras; customerID vacío = todas.
func (uc *UseCase) ListPrinters(ctx context.Context, customerID string) ([]*dto.PrinterResponse, error) {
	list, err := uc.printers.List(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PrinterResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPrinterResponse(p))
	}
	return out, nil
}

// CreateTransport registra una transportadora.
func (uc *UseCase) CreateTransport(ctx context.Context, in dto.CreateTransportRequest) (*dto.TransportResponse, error) {
	t := &entity.Transport{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: time.Now(),
	}
	if t.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.transports.Create(ctx, t); err != nil {
		return nil, err
	}
	return &dto.TransportResponse{ID: t.ID, Name: t.Name, Phone: t.Phone}, nil
}

// ListTransports lista transportadoras.
func (uc *UseCase) ListTransports(ctx context.Context) ([]*dto.TransportResponse, error) {
	list, err := uc.transports.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransportResponse, 0, len(list))
	for _, t := range list {
		out = append(out, &dto.TransportResponse{ID: t.ID, Name: t.Name, Phone: t.Phone})
	}
	return out, nil
}

// ListOperators usuarios activos con rol operador, como opciones.
func (uc *UseCase) ListOperators(ctx context.Context) ([]dto.OptionDTO, error) {
	list, err := uc.users.List(ctx, entity.RoleOperador, operatorsLimit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OptionDTO, 0, len(list))
	for _, u := range list {
		if u.Status != "" && u.Status != "active" {
			continue
		}
		out = append(out, dto.OptionDTO{Value: u.ID, Label: u.Name})
	}
	return out, nil
}

func toPrinterResponse(p *entity.Printer) *dto.PrinterResponse {
	return &dto.PrinterResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		Name:       p.Name,
		Model:      p.Model,
		Colors:     p.Colors,
	}
}
