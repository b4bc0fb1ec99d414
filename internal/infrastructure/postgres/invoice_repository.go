package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// Las órdenes vinculadas se leen de service_orders.invoice_id.
const invoiceColumns = `i.id, i.nf_number, i.customer_id, i.issue_date, i.total, i.purchase_orders,
	i.created_by, i.created_at,
	ARRAY(SELECT so.id::text FROM service_orders so WHERE so.invoice_id = i.id ORDER BY so.number)`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la nota fiscal.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, nf_number, customer_id, issue_date, total, purchase_orders, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.NfNumber, invoice.CustomerID, invoice.IssueDate, invoice.Total,
		purchaseOrders(invoice.PurchaseOrders), nullIfEmpty(invoice.CreatedBy), invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una nota fiscal con sus órdenes.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.findOne(ctx, sq.Eq{"i.id": id})
}

// GetByNfNumber obtiene una nota fiscal por su número.
func (r *InvoiceRepo) GetByNfNumber(ctx context.Context, nfNumber string) (*entity.Invoice, error) {
	return r.findOne(ctx, sq.Eq{"i.nf_number": nfNumber})
}

func (r *InvoiceRepo) findOne(ctx context.Context, where sq.Eq) (*entity.Invoice, error) {
	query, args, err := psql.Select(invoiceColumns).From("invoices i").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get invoice: %w", err)
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List notas fiscales más recientes primero; customerID vacío lista todas.
func (r *InvoiceRepo) List(ctx context.Context, customerID string, limit, offset int) ([]*entity.Invoice, error) {
	builder := psql.Select(invoiceColumns).From("invoices i").
		OrderBy("i.issue_date DESC", "i.nf_number DESC").
		Limit(uint64(limit)).Offset(uint64(offset))
	if customerID != "" {
		builder = builder.Where(sq.Eq{"i.customer_id": customerID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list invoices: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv       entity.Invoice
		createdBy *string
	)
	err := row.Scan(
		&inv.ID, &inv.NfNumber, &inv.CustomerID, &inv.IssueDate, &inv.Total, &inv.PurchaseOrders,
		&createdBy, &inv.CreatedAt, &inv.ServiceOrderIDs,
	)
	if err != nil {
		return nil, err
	}
	inv.CreatedBy = stringOrEmpty(createdBy)
	return &inv, nil
}
