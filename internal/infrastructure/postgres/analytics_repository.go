package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de producción.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// ListOrderMetrics devuelve una fila por orden no cancelada con entrada en [start, end].
// El precio se atribuye al cliente solicitante; órdenes sin precio suman cero.
func (r *AnalyticsRepo) ListOrderMetrics(ctx context.Context, start, end time.Time) ([]repository.OrderMetricRow, error) {
	const query = `
	SELECT
	    so.product,
	    so.status,
	    so.customer_id,
	    c.name,
	    so.entry_date,
	    COALESCE(so.total_price, 0) AS total_price
	FROM service_orders so
	JOIN customers      c ON c.id = so.customer_id
	WHERE so.status <> 'CANCELLED'
	  AND so.entry_date BETWEEN $1 AND $2
	ORDER BY so.entry_date`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("analytics.ListOrderMetrics: %w", err)
	}
	defer rows.Close()

	var results []repository.OrderMetricRow
	for rows.Next() {
		var row repository.OrderMetricRow
		if err := rows.Scan(
			&row.Product,
			&row.Status,
			&row.CustomerID,
			&row.CustomerName,
			&row.EntryDate,
			&row.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("analytics.ListOrderMetrics scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
