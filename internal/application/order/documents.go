package order

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
)

// exportLimit tope de filas por planilla.
const exportLimit = 5000

// TicketPDF genera la hoja de producción de la orden.
// Retorna (pdfBytes, filename, nil) o domain.ErrNotFound si la orden no existe.
func (uc *UseCase) TicketPDF(ctx context.Context, id string) ([]byte, string, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	t := Ticket{Order: o}
	t.Customer = uc.customerName(ctx, o.CustomerID)
	t.ExternalCustomer = uc.customerName(ctx, o.ExternalCustomerID)
	t.Operator = uc.userName(ctx, o.OperatorID)
	t.Transport = o.TransportID

	pdf, err := uc.tickets.RenderTicket(ctx, t)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar hoja: %w", err)
	}
	return pdf, fmt.Sprintf("OS-%06d.pdf", o.Number), nil
}

// ExportXLSX escribe en w la planilla de las órdenes que cumplen el filtro.
func (uc *UseCase) ExportXLSX(ctx context.Context, q dto.ServiceOrderListQuery, w io.Writer) error {
	filter, err := toFilter(q)
	if err != nil {
		return err
	}
	filter.Limit = exportLimit
	filter.Offset = 0
	list, _, err := uc.repo.List(ctx, filter)
	if err != nil {
		return err
	}
	customers := map[string]string{}
	operators := map[string]string{}
	rows := make([]ReportRow, 0, len(list))
	for _, o := range list {
		if _, ok := customers[o.CustomerID]; !ok {
			customers[o.CustomerID] = uc.customerName(ctx, o.CustomerID)
		}
		if _, ok := operators[o.OperatorID]; !ok {
			operators[o.OperatorID] = uc.userName(ctx, o.OperatorID)
		}
		rows = append(rows, ReportRow{Order: o, Customer: customers[o.CustomerID], Operator: operators[o.OperatorID]})
	}
	return uc.reports.WriteOrders(w, rows)
}

// customerName resuelve el nombre; si falla devuelve el id.
func (uc *UseCase) customerName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil || c == nil {
		return id
	}
	return c.Name
}

func (uc *UseCase) userName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	u, err := uc.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return id
	}
	return u.Name
}
