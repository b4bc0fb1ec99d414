package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status estado de producción de la orden.
type Status string

// Estados de la orden de servicio.
const (
	StatusOpen         Status = "OPEN"
	StatusInProduction Status = "IN_PRODUCTION"
	StatusDispatched   Status = "DISPATCHED"
	StatusInvoiced     Status = "INVOICED"
	StatusCancelled    Status = "CANCELLED"
)

var statusTransitions = map[Status][]Status{
	StatusOpen:         {StatusInProduction, StatusCancelled},
	StatusInProduction: {StatusDispatched, StatusCancelled},
	StatusDispatched:   {StatusInvoiced, StatusCancelled},
	StatusInvoiced:     {},
	StatusCancelled:    {},
}

var statusLabels = map[Status]string{
	StatusOpen:         "Aberta",
	StatusInProduction: "Em produção",
	StatusDispatched:   "Despachada",
	StatusInvoiced:     "Faturada",
	StatusCancelled:    "Cancelada",
}

// Label etiqueta de presentación (pt-BR).
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid indica si el estado es conocido.
func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition indica si se permite pasar de s a next.
func (s Status) CanTransition(next Status) bool {
	for _, st := range statusTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// ServiceOrder orden de servicio (clichê o forma de corte).
type ServiceOrder struct {
	ID                 string
	Number             int64
	Status             Status
	Product            Product
	ProductType        ProductType
	IsReplacement      bool
	Replacement        *ReplacementDetails
	CustomerID         string
	ExternalCustomerID string // destinatario de la facturación
	OperatorID         string
	TransportID        string
	Title              string
	EntryDate          time.Time
	DispatchDate       *time.Time
	Notes              string
	Files              Attachments
	Budget             decimal.NullDecimal
	TotalPrice         decimal.NullDecimal
	PurchaseOrders     []string
	NfNumber           string
	BillingDate        *time.Time
	InvoiceID          string
	PrinterDetails     *PrinterDetails
	DieCutBlockDetails *DieCutBlockDetails
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Attachments rutas relativas de los archivos almacenados.
type Attachments struct {
	File             string `json:"file,omitempty"`
	PrintSheet       string `json:"printSheet,omitempty"`
	DieCutBlockSheet string `json:"dieCutBlockSheet,omitempty"`
}

// ReplacementDetails campos superpuestos cuando la orden es reposición.
type ReplacementDetails struct {
	Reason               string `json:"reason"`
	OriginalServiceOrder string `json:"originalServiceOrder,omitempty"`
}

// PrinterDetails detalle técnico del clichê corrugado.
type PrinterDetails struct {
	Printers       []string        `json:"printers"`
	PlateThickness string          `json:"plateThickness"`
	Cylinder       string          `json:"cylinder"`
	Distortion     decimal.Decimal `json:"distortion"`
	Measures       *ClicheMeasures `json:"measures,omitempty"`
	Repair         *ClicheRepair   `json:"repair,omitempty"`
	Profile        string          `json:"profile,omitempty"`
	ColorsPattern  string          `json:"colorsPattern,omitempty"`
	Colors         []ColorSetting  `json:"colors,omitempty"`
}

// ClicheMeasures medidas del clichê (cm).
type ClicheMeasures struct {
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Sets   int             `json:"sets"`
}

// ClicheRepair datos del conserto de clichê.
type ClicheRepair struct {
	Description string              `json:"description"`
	Colors      []string            `json:"colors"`
	Area        decimal.NullDecimal `json:"area"`
}

// ColorSetting ajuste de impresión por canal de color.
type ColorSetting struct {
	Color     string          `json:"color"`
	Lineature decimal.Decimal `json:"lineature"`
	Angle     decimal.Decimal `json:"angle"`
}

// DieCutBlockDetails detalle técnico de la forma de corte.
type DieCutBlockDetails struct {
	Printers           []string             `json:"printers"`
	KnifeType          string               `json:"knifeType"`
	Wave               string               `json:"wave"`
	CardboardThickness decimal.Decimal      `json:"cardboardThickness"`
	Measures           *DieCutBlockMeasures `json:"measures,omitempty"`
	Repair             *DieCutBlockRepair   `json:"repair,omitempty"`
}

// DieCutBlockMeasures medidas de la forma (cm).
type DieCutBlockMeasures struct {
	Width       decimal.Decimal `json:"width"`
	Height      decimal.Decimal `json:"height"`
	KnifeLength decimal.Decimal `json:"knifeLength"`
}

// DieCutBlockRepair datos del conserto de la forma.
type DieCutBlockRepair struct {
	Description string              `json:"description"`
	KnifeLength decimal.NullDecimal `json:"knifeLength"`
}
