// Package pdf genera la hoja de producción (ticket) de una orden de servicio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: OS N° + producto/tipo   │  QR + entrada/despacho   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / FACTURAR A / OPERADOR / TRANSPORTE               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE TÉCNICO: clichê o forma (medidas, cores, conserto) │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMERCIAL: orçamento / valor / pedidos / NF                │
//	│  OBSERVAÇÕES                                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/pkg/brnum"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ order.TicketRenderer = (*TicketGenerator)(nil)

// TicketGenerator implementa order.TicketRenderer usando Maroto v2.
type TicketGenerator struct {
	company string
}

// NewTicketGenerator construye el generador; company aparece como autor del PDF.
func NewTicketGenerator(company string) *TicketGenerator {
	return &TicketGenerator{company: company}
}

// RenderTicket genera el PDF y devuelve sus bytes.
func (g *TicketGenerator) RenderTicket(_ context.Context, t order.Ticket) ([]byte, error) {
	if t.Order == nil {
		return nil, fmt.Errorf("pdf: orden vacía")
	}
	o := t.Order

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(orderCode(o), true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRows(t)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("DETALHE TÉCNICO"))
	switch {
	case o.PrinterDetails != nil:
		m.AddRows(clicheRows(o.PrinterDetails)...)
	case o.DieCutBlockDetails != nil:
		m.AddRows(dieCutBlockRows(o.DieCutBlockDetails)...)
	}
	if o.IsReplacement && o.Replacement != nil {
		m.AddRows(fieldRow("Reposição", o.Replacement.Reason))
		m.AddRows(fieldRow("OS original", o.Replacement.OriginalServiceOrder))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("COMERCIAL"))
	m.AddRows(commercialRows(o)...)

	if o.Notes != "" {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionTitle("OBSERVAÇÕES"))
		m.AddRows(row.New(20).Add(col.New(12).Add(
			text.New(o.Notes, props.Text{Size: 8, Top: 1}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: número y producto (izq), QR del número y fechas (der).
func headerRow(o *entity.ServiceOrder) core.Row {
	return row.New(26).Add(
		col.New(7).Add(
			text.New("ORDEM DE SERVIÇO "+orderCode(o), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(o.Product.Label()+" · "+o.ProductType.Label(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 9,
			}),
			text.New(o.Title, props.Text{Size: 9, Top: 16, Color: colorGray}),
		),
		col.New(2).Add(code.NewQr(orderCode(o), props.Rect{Percent: 95, Center: true})),
		col.New(3).Add(
			text.New("Entrada: "+formatDate(&o.EntryDate), props.Text{
				Size: 8, Align: align.Right, Top: 2,
			}),
			text.New("Despacho: "+formatDate(o.DispatchDate), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 8,
			}),
			text.New("Status: "+o.Status.Label(), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func partiesRows(t order.Ticket) []core.Row {
	return []core.Row{
		row.New(12).Add(
			col.New(6).Add(
				text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
				text.New(nonEmpty(t.Customer, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			),
			col.New(6).Add(
				text.New("FATURAR PARA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
				text.New(nonEmpty(t.ExternalCustomer, nonEmpty(t.Customer, "-")), props.Text{Size: 10, Top: 6}),
			),
		),
		row.New(8).Add(
			col.New(6).Add(text.New("Operador: "+nonEmpty(t.Operator, "-"), props.Text{Size: 8, Top: 2, Color: colorGray})),
			col.New(6).Add(text.New("Transporte: "+nonEmpty(t.Transport, "-"), props.Text{Size: 8, Top: 2, Color: colorGray})),
		),
	}
}

func clicheRows(d *entity.PrinterDetails) []core.Row {
	rows := []core.Row{
		fieldRow("Impressoras", strings.Join(d.Printers, ", ")),
		fieldRow("Espessura", d.PlateThickness),
		fieldRow("Cilindro", d.Cylinder),
		fieldRow("Distorção", brnum.Format(d.Distortion, 2)+"%"),
	}
	if d.Measures != nil {
		rows = append(rows, fieldRow("Medidas", fmt.Sprintf("%s x %s cm · %d jogo(s)",
			brnum.Format(d.Measures.Width, 2), brnum.Format(d.Measures.Height, 2), d.Measures.Sets)))
	}
	if d.Repair != nil {
		rows = append(rows,
			fieldRow("Conserto", d.Repair.Description),
			fieldRow("Cores", strings.Join(d.Repair.Colors, ", ")),
			fieldRow("Área", optionalNumber(d.Repair.Area, " cm²")),
		)
	}
	if d.Profile != "" || d.ColorsPattern != "" {
		rows = append(rows, fieldRow("Perfil", strings.TrimSpace(d.Profile+" "+d.ColorsPattern)))
	}
	if len(d.Colors) > 0 {
		rows = append(rows, colorsHeaderRow())
		for _, c := range d.Colors {
			rows = append(rows, row.New(6).Add(
				col.New(6).Add(text.New(c.Color, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(3).Add(text.New(brnum.Format(c.Lineature, 0)+" lpi", props.Text{Size: 8, Align: align.Right, Top: 1})),
				col.New(3).Add(text.New(brnum.Format(c.Angle, 1)+"°", props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			))
		}
	}
	return rows
}

func dieCutBlockRows(d *entity.DieCutBlockDetails) []core.Row {
	rows := []core.Row{
		fieldRow("Impressoras", strings.Join(d.Printers, ", ")),
		fieldRow("Faca", d.KnifeType),
		fieldRow("Onda", d.Wave),
		fieldRow("Espessura papelão", brnum.Format(d.CardboardThickness, 2)+" mm"),
	}
	if d.Measures != nil {
		rows = append(rows, fieldRow("Medidas", fmt.Sprintf("%s x %s cm · faca %s m",
			brnum.Format(d.Measures.Width, 2), brnum.Format(d.Measures.Height, 2),
			brnum.Format(d.Measures.KnifeLength, 2))))
	}
	if d.Repair != nil {
		rows = append(rows,
			fieldRow("Conserto", d.Repair.Description),
			fieldRow("Faca (conserto)", optionalNumber(d.Repair.KnifeLength, " m")),
		)
	}
	return rows
}

func commercialRows(o *entity.ServiceOrder) []core.Row {
	return []core.Row{
		fieldRow("Orçamento", optionalCurrency(o.Budget)),
		fieldRow("Valor total", optionalCurrency(o.TotalPrice)),
		fieldRow("Pedidos de compra", strings.Join(o.PurchaseOrders, ", ")),
		fieldRow("NF", nonEmpty(o.NfNumber, "-")+"   Faturamento: "+formatDate(o.BillingDate)),
	}
}

// ── Filas ─────────────────────────────────────────────────────────────────────

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// fieldRow: etiqueta en negrita (izq) y valor (der).
func fieldRow(label, value string) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
		col.New(9).Add(text.New(nonEmpty(value, "-"), props.Text{Size: 8, Top: 1})),
	)
}

// colorsHeaderRow: cabecera de la tabla de cores con texto blanco.
func colorsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cor", 6, align.Left),
		h("Lineatura", 3, align.Right),
		h("Ângulo", 3, align.Right),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func orderCode(o *entity.ServiceOrder) string {
	return fmt.Sprintf("OS-%06d", o.Number)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

func optionalCurrency(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return brnum.Currency(d.Decimal)
}

func optionalNumber(d decimal.NullDecimal, unit string) string {
	if !d.Valid {
		return "-"
	}
	return brnum.Format(d.Decimal, 2) + unit
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
