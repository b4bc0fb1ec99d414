// Package analytics contiene el caso de uso del dashboard de órdenes de servicio.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
	"github.com/jhoicas/Clicheria-api/pkg/brnum"
)

const dashboardTopCustomers = 5 // clientes en el widget del dashboard

// DashboardUseCase agrega las órdenes del año para el dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). La DB devuelve
// una fila por orden; la agregación y el formato pt-BR se hacen aquí.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el resumen del año indicado (0 = año en curso).
//
// Dos llamadas en paralelo:
//  1. ListOrderMetrics(año)          → series mensuales, estados, top clientes
//  2. ListOrderMetrics(año anterior) → facturación para comparar
func (uc *DashboardUseCase) GetSummary(ctx context.Context, year int) (*dto.DashboardSummaryDTO, error) {
	if year == 0 {
		year = uc.now().Year()
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("dashboard: año %d fuera de rango", year)
	}

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	prevStart := start.AddDate(-1, 0, 0)
	prevEnd := start.Add(-time.Nanosecond)

	type rowsResult struct {
		rows []repository.OrderMetricRow
		err  error
	}
	curCh := make(chan rowsResult, 1)
	prevCh := make(chan rowsResult, 1)
	go func() {
		rows, err := uc.analyticsRepo.ListOrderMetrics(ctx, start, end)
		curCh <- rowsResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.ListOrderMetrics(ctx, prevStart, prevEnd)
		prevCh <- rowsResult{rows, err}
	}()
	cur := <-curCh
	prev := <-prevCh
	if cur.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del año: %w", cur.err)
	}
	if prev.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del año anterior: %w", prev.err)
	}

	// ── Agregación ────────────────────────────────────────────────────────────
	out := &dto.DashboardSummaryDTO{
		Year:         year,
		Months:       make([]dto.MonthSeriesDTO, 12),
		ByStatus:     map[string]int{},
		TotalRevenue: decimal.Zero,
	}
	for m := range out.Months {
		out.Months[m] = dto.MonthSeriesDTO{
			Month:   m + 1,
			Label:   monthLabel(time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)),
			Revenue: decimal.Zero,
		}
	}
	customers := map[string]*dto.TopCustomerDTO{}
	for _, r := range cur.rows {
		ms := &out.Months[r.EntryDate.Month()-1]
		switch r.Product {
		case entity.ProductClicheCorrugated:
			ms.Cliche++
		case entity.ProductDieCutBlock:
			ms.DieCutBlock++
		}
		ms.Revenue = ms.Revenue.Add(r.TotalPrice)
		out.ByStatus[string(r.Status)]++
		out.TotalOrders++
		out.TotalRevenue = out.TotalRevenue.Add(r.TotalPrice)

		c, ok := customers[r.CustomerID]
		if !ok {
			c = &dto.TopCustomerDTO{CustomerID: r.CustomerID, CustomerName: r.CustomerName, Revenue: decimal.Zero}
			customers[r.CustomerID] = c
		}
		c.Orders++
		c.Revenue = c.Revenue.Add(r.TotalPrice)
	}
	for m := range out.Months {
		out.Months[m].RevenueLabel = brnum.Currency(out.Months[m].Revenue)
	}
	out.RevenueLabel = brnum.Currency(out.TotalRevenue)
	out.TopCustomers = topCustomers(customers, dashboardTopCustomers)

	prevRevenue := decimal.Zero
	for _, r := range prev.rows {
		prevRevenue = prevRevenue.Add(r.TotalPrice)
	}
	out.PreviousYearRevenue = prevRevenue
	out.PreviousYearLabel = brnum.Currency(prevRevenue)
	if !prevRevenue.IsZero() {
		growth := out.TotalRevenue.Sub(prevRevenue).Div(prevRevenue).Mul(decimal.NewFromInt(100))
		out.GrowthLabel = brnum.Format(growth, 1) + "%"
	}
	return out, nil
}

// topCustomers ordena por facturación y, a igualdad, por cantidad de órdenes.
func topCustomers(m map[string]*dto.TopCustomerDTO, n int) []dto.TopCustomerDTO {
	list := make([]dto.TopCustomerDTO, 0, len(m))
	for _, c := range m {
		c.RevenueLabel = brnum.Currency(c.Revenue)
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Revenue.Equal(list[j].Revenue) {
			return list[i].Revenue.GreaterThan(list[j].Revenue)
		}
		if list[i].Orders != list[j].Orders {
			return list[i].Orders > list[j].Orders
		}
		return list[i].CustomerName < list[j].CustomerName
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}

// monthLabel devuelve una etiqueta corta del mes, ej: "Out/2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
		"Jul", "Ago", "Set", "Out", "Nov", "Dez",
	}
	return fmt.Sprintf("%s/%d", months[t.Month()-1], t.Year())
}
