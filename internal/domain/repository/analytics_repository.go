package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// OrderMetricRow fila mínima por orden para agregar el dashboard.
// Lo produce la DB; el use case agrega y formatea.
type OrderMetricRow struct {
	Product      entity.Product
	Status       entity.Status
	CustomerID   string
	CustomerName string
	EntryDate    time.Time
	TotalPrice   decimal.Decimal // cero si la orden no tiene precio
}

// AnalyticsRepository consultas de lectura para el dashboard.
type AnalyticsRepository interface {
	// ListOrderMetrics devuelve las órdenes no canceladas con entrada en el rango.
	ListOrderMetrics(ctx context.Context, start, end time.Time) ([]OrderMetricRow, error)
}
