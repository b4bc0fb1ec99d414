package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

var (
	_ repository.PrinterRepository   = (*PrinterRepo)(nil)
	_ repository.TransportRepository = (*TransportRepo)(nil)
)

// PrinterRepo catálogo de impresoras de clientes.
type PrinterRepo struct {
	q Querier
}

// NewPrinterRepository construye el adaptador.
func NewPrinterRepository(q Querier) *PrinterRepo {
	return &PrinterRepo{q: q}
}

// Create persiste una impresora.
func (r *PrinterRepo) Create(ctx context.Context, p *entity.Printer) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO printers (id, customer_id, name, model, colors, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.CustomerID, p.Name, nullIfEmpty(p.Model), p.Colors, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert printer: %w", err)
	}
	return nil
}

// List impresoras del cliente; customerID vacío lista todas.
func (r *PrinterRepo) List(ctx context.Context, customerID string) ([]*entity.Printer, error) {
	query := `
		SELECT id, customer_id, name, model, colors, created_at FROM printers
		WHERE ($1 = '' OR customer_id::text = $1)
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Printer
	for rows.Next() {
		var (
			p     entity.Printer
			model *string
		)
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Name, &model, &p.Colors, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		p.Model = stringOrEmpty(model)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// TransportRepo catálogo de transportadoras.
type TransportRepo struct {
	q Querier
}

// NewTransportRepository construye el adaptador.
func NewTransportRepository(q Querier) *TransportRepo {
	return &TransportRepo{q: q}
}

// Create persiste una transportadora.
func (r *TransportRepo) Create(ctx context.Context, t *entity.Transport) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO transports (id, name, phone, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, nullIfEmpty(t.Phone), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transport: %w", err)
	}
	return nil
}

// List transportadoras por nombre.
func (r *TransportRepo) List(ctx context.Context) ([]*entity.Transport, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, phone, created_at FROM transports ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list transports: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transport
	for rows.Next() {
		var (
			t     entity.Transport
			phone *string
		)
		if err := rows.Scan(&t.ID, &t.Name, &phone, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transport: %w", err)
		}
		t.Phone = stringOrEmpty(phone)
		list = append(list, &t)
	}
	return list, rows.Err()
}
