package excel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/order"
)

var _ order.ReportWriter = (*ReportWriter)(nil)

const sheetName = "Ordens de Serviço"

var reportHeaders = []string{
	"OS", "Entrada", "Despacho", "Cliente", "Produto", "Tipo", "Título", "Operador",
	"Status", "Orçamento", "Valor Total", "Pedidos", "NF", "Faturamento",
}

// ReportWriter planilla de órdenes de servicio con excelize.
type ReportWriter struct{}

// NewReportWriter construye el escritor.
func NewReportWriter() *ReportWriter { return &ReportWriter{} }

// WriteOrders escribe una hoja con una fila por orden. Los valores monetarios
// van como números con formato de moeda para que la planilla pueda sumarlos.
func (ReportWriter) WriteOrders(w io.Writer, rows []order.ReportRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &reportHeaders); err != nil {
		return fmt.Errorf("excel: cabecera: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo cabecera: %w", err)
	}
	moneyFmt := `"R$" #,##0.00`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("excel: estilo moneda: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("excel: aplicar estilo: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := rowToSlice(r)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}
	if len(rows) > 0 {
		last := len(rows) + 1
		if err := f.SetCellStyle(sheetName, "J2", fmt.Sprintf("K%d", last), moneyStyle); err != nil {
			return fmt.Errorf("excel: estilo valores: %w", err)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "D", 30)
	_ = f.SetColWidth(sheetName, "E", "F", 16)
	_ = f.SetColWidth(sheetName, "G", "G", 40)
	_ = f.SetColWidth(sheetName, "H", "H", 20)
	_ = f.SetColWidth(sheetName, "J", "L", 16)
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir: %w", err)
	}
	return nil
}

func rowToSlice(r order.ReportRow) []interface{} {
	o := r.Order
	return []interface{}{
		o.Number,
		formatDate(&o.EntryDate),
		formatDate(o.DispatchDate),
		r.Customer,
		o.Product.Label(),
		o.ProductType.Label(),
		o.Title,
		r.Operator,
		o.Status.Label(),
		moneyCell(o.Budget),
		moneyCell(o.TotalPrice),
		strings.Join(o.PurchaseOrders, ", "),
		o.NfNumber,
		formatDate(o.BillingDate),
	}
}

// moneyCell número para la celda; vacío si la orden no tiene valor.
func moneyCell(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return f
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
