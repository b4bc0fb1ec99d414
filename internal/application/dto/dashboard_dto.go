package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Series mensuales del año más totales por estado y top clientes.
type DashboardSummaryDTO struct {
	Year         int              `json:"year"`
	Months       []MonthSeriesDTO `json:"months"`
	ByStatus     map[string]int   `json:"byStatus"`
	TopCustomers []TopCustomerDTO `json:"topCustomers"`
	TotalOrders  int              `json:"totalOrders"`
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
	RevenueLabel string           `json:"revenueLabel"` // ej: "R$ 12.345,00"
}

// MonthSeriesDTO punto de la serie mensual (gráfico de barras).
type MonthSeriesDTO struct {
	Month        int             `json:"month"`
	Label        string          `json:"label"` // ej: "Out/2026"
	Cliche       int             `json:"cliche"`
	DieCutBlock  int             `json:"dieCutBlock"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueLabel string          `json:"revenueLabel"`
}

// TopCustomerDTO cliente con mayor facturación del año.
type TopCustomerDTO struct {
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueLabel string          `json:"revenueLabel"`
}
