package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

const serviceOrderColumns = `id, number, status, product, product_type, is_replacement, replacement,
	customer_id, external_customer_id, operator_id, transport_id, title, entry_date, dispatch_date,
	notes, files, budget, total_price, purchase_orders, nf_number, billing_date, invoice_id,
	printer_details, die_cut_block_details, created_by, created_at, updated_at`

// ServiceOrderRepo implementación de ServiceOrderRepository (usable con pool o tx).
// Los detalles técnicos por producto se guardan como JSONB.
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

// Create persiste la orden; el número lo asigna la secuencia de la tabla.
func (r *ServiceOrderRepo) Create(ctx context.Context, o *entity.ServiceOrder) error {
	js, err := encodeOrderJSON(o)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO service_orders (
			id, status, product, product_type, is_replacement, replacement,
			customer_id, external_customer_id, operator_id, transport_id, title, entry_date, dispatch_date,
			notes, files, budget, total_price, purchase_orders, nf_number, billing_date, invoice_id,
			printer_details, die_cut_block_details, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING number`
	err = r.q.QueryRow(ctx, query,
		o.ID, o.Status, o.Product, o.ProductType, o.IsReplacement, js.replacement,
		o.CustomerID, nullIfEmpty(o.ExternalCustomerID), o.OperatorID, nullIfEmpty(o.TransportID),
		o.Title, o.EntryDate, o.DispatchDate,
		nullIfEmpty(o.Notes), js.files, o.Budget, o.TotalPrice, purchaseOrders(o.PurchaseOrders),
		nullIfEmpty(o.NfNumber), o.BillingDate, nullIfEmpty(o.InvoiceID),
		js.printer, js.dieCutBlock, nullIfEmpty(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	).Scan(&o.Number)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service order: %w", err)
	}
	return nil
}

// Update reescribe los campos editables de la orden (número y creación no cambian).
func (r *ServiceOrderRepo) Update(ctx context.Context, o *entity.ServiceOrder) error {
	js, err := encodeOrderJSON(o)
	if err != nil {
		return err
	}
	query := `
		UPDATE service_orders SET
			status = $2, product = $3, product_type = $4, is_replacement = $5, replacement = $6,
			customer_id = $7, external_customer_id = $8, operator_id = $9, transport_id = $10,
			title = $11, entry_date = $12, dispatch_date = $13, notes = $14, files = $15,
			budget = $16, total_price = $17, purchase_orders = $18, nf_number = $19, billing_date = $20,
			printer_details = $21, die_cut_block_details = $22, updated_at = $23
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.Status, o.Product, o.ProductType, o.IsReplacement, js.replacement,
		o.CustomerID, nullIfEmpty(o.ExternalCustomerID), o.OperatorID, nullIfEmpty(o.TransportID),
		o.Title, o.EntryDate, o.DispatchDate, nullIfEmpty(o.Notes), js.files,
		o.Budget, o.TotalPrice, purchaseOrders(o.PurchaseOrders), nullIfEmpty(o.NfNumber), o.BillingDate,
		js.printer, js.dieCutBlock, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *ServiceOrderRepo) GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	query := `SELECT ` + serviceOrderColumns + ` FROM service_orders WHERE id = $1`
	o, err := scanServiceOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service order: %w", err)
	}
	return o, nil
}

// List devuelve la página pedida y el total de órdenes que cumplen el filtro.
func (r *ServiceOrderRepo) List(ctx context.Context, f repository.ServiceOrderFilter) ([]*entity.ServiceOrder, int, error) {
	where := serviceOrderWhere(f)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("service_orders").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count service orders: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count service orders: %w", err)
	}

	builder := psql.Select(serviceOrderColumns).From("service_orders").Where(where).
		OrderBy("number DESC")
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		builder = builder.Offset(uint64(f.Offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list service orders: %w", err)
	}
	list, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list service orders: %w", err)
	}
	return list, total, nil
}

// UpdateStatus cambia el estado de producción.
func (r *ServiceOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.Status, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE service_orders SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update service order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkInvoice marca la orden como facturada.
func (r *ServiceOrderRepo) LinkInvoice(ctx context.Context, id, invoiceID, nfNumber string, billingDate time.Time) error {
	query := `
		UPDATE service_orders
		SET status = $2, invoice_id = $3, nf_number = $4, billing_date = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, entity.StatusInvoiced, invoiceID, nfNumber, billingDate)
	if err != nil {
		return fmt.Errorf("link invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDispatchOverdue órdenes abiertas o en producción con despacho vencido.
func (r *ServiceOrderRepo) ListDispatchOverdue(ctx context.Context, before time.Time) ([]*entity.ServiceOrder, error) {
	query := `SELECT ` + serviceOrderColumns + `
		FROM service_orders
		WHERE status IN ($1, $2) AND dispatch_date IS NOT NULL AND dispatch_date < $3
		ORDER BY dispatch_date, number`
	list, err := r.queryOrders(ctx, query, entity.StatusOpen, entity.StatusInProduction, before)
	if err != nil {
		return nil, fmt.Errorf("list overdue service orders: %w", err)
	}
	return list, nil
}

func (r *ServiceOrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]*entity.ServiceOrder, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.ServiceOrder
	for rows.Next() {
		o, err := scanServiceOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// serviceOrderWhere traduce el filtro a condiciones de squirrel.
func serviceOrderWhere(f repository.ServiceOrderFilter) sq.And {
	where := sq.And{}
	if f.CustomerID != "" {
		where = append(where, sq.Or{
			sq.Eq{"customer_id": f.CustomerID},
			sq.Eq{"external_customer_id": f.CustomerID},
		})
	}
	if f.OperatorID != "" {
		where = append(where, sq.Eq{"operator_id": f.OperatorID})
	}
	if f.Product != "" {
		where = append(where, sq.Eq{"product": f.Product})
	}
	if f.ProductType != "" {
		where = append(where, sq.Eq{"product_type": f.ProductType})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"entry_date": *f.From})
	}
	if f.To != nil {
		where = append(where, sq.LtOrEq{"entry_date": *f.To})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		search := sq.Or{sq.ILike{"title": "%" + s + "%"}}
		if n, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64); err == nil {
			search = append(search, sq.Eq{"number": n})
		}
		where = append(where, search)
	}
	return where
}

type orderJSON struct {
	replacement []byte
	files       []byte
	printer     []byte
	dieCutBlock []byte
}

func encodeOrderJSON(o *entity.ServiceOrder) (orderJSON, error) {
	var (
		out orderJSON
		err error
	)
	if out.replacement, err = marshalNullable(o.Replacement != nil, o.Replacement); err != nil {
		return out, fmt.Errorf("encode replacement: %w", err)
	}
	if out.files, err = json.Marshal(o.Files); err != nil {
		return out, fmt.Errorf("encode files: %w", err)
	}
	if out.printer, err = marshalNullable(o.PrinterDetails != nil, o.PrinterDetails); err != nil {
		return out, fmt.Errorf("encode printer details: %w", err)
	}
	if out.dieCutBlock, err = marshalNullable(o.DieCutBlockDetails != nil, o.DieCutBlockDetails); err != nil {
		return out, fmt.Errorf("encode die cut block details: %w", err)
	}
	return out, nil
}

// marshalNullable devuelve nil (NULL en la columna) cuando no hay valor.
func marshalNullable(present bool, v any) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}

func purchaseOrders(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func scanServiceOrder(row pgx.Row) (*entity.ServiceOrder, error) {
	var (
		o                                   entity.ServiceOrder
		replacement, files, printer, dieCut []byte
		externalID, transportID, notes, nf  *string
		invoiceID, createdBy                *string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.Status, &o.Product, &o.ProductType, &o.IsReplacement, &replacement,
		&o.CustomerID, &externalID, &o.OperatorID, &transportID, &o.Title, &o.EntryDate, &o.DispatchDate,
		&notes, &files, &o.Budget, &o.TotalPrice, &o.PurchaseOrders, &nf, &o.BillingDate, &invoiceID,
		&printer, &dieCut, &createdBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ExternalCustomerID = stringOrEmpty(externalID)
	o.TransportID = stringOrEmpty(transportID)
	o.Notes = stringOrEmpty(notes)
	o.NfNumber = stringOrEmpty(nf)
	o.InvoiceID = stringOrEmpty(invoiceID)
	o.CreatedBy = stringOrEmpty(createdBy)

	if len(replacement) > 0 {
		o.Replacement = &entity.ReplacementDetails{}
		if err := json.Unmarshal(replacement, o.Replacement); err != nil {
			return nil, fmt.Errorf("decode replacement: %w", err)
		}
	}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &o.Files); err != nil {
			return nil, fmt.Errorf("decode files: %w", err)
		}
	}
	if len(printer) > 0 {
		o.PrinterDetails = &entity.PrinterDetails{}
		if err := json.Unmarshal(printer, o.PrinterDetails); err != nil {
			return nil, fmt.Errorf("decode printer details: %w", err)
		}
	}
	if len(dieCut) > 0 {
		o.DieCutBlockDetails = &entity.DieCutBlockDetails{}
		if err := json.Unmarshal(dieCut, o.DieCutBlockDetails); err != nil {
			return nil, fmt.Errorf("decode die cut block details: %w", err)
		}
	}
	return &o, nil
}
