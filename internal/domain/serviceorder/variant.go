package serviceorder

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/pkg/brnum"
)

// Variant modelo tipado por combinación (producto, tipo). Cada variante solo
// contiene los campos de los pasos que su secuencia visita; se colapsa al formato
// común de envío con Payload.
type Variant interface {
	Payload() Payload
	Terminal() StepKey
}

// Header campos comunes a todas las variantes (paso 1 y cierre).
type Header struct {
	Product          entity.Product
	ProductType      entity.ProductType
	Replacement      *entity.ReplacementDetails
	Customer         string
	ExternalCustomer string
	Operator         string
	Transport        string
	Title            string
	EntryDate        Date
	DispatchDate     *Date
	Notes            string
	Budget           decimal.NullDecimal
	TotalPrice       decimal.NullDecimal
	PurchaseOrder    []string
	NfNumber         string
	BillingDate      *Date
}

// ClicheMachine datos del paso 2 del clichê.
type ClicheMachine struct {
	Printers       []string
	PlateThickness string
	Cylinder       string
	Distortion     decimal.Decimal
}

// DieCutMachine datos del paso 2 de la forma de corte.
type DieCutMachine struct {
	Printers           []string
	KnifeType          string
	Wave               string
	CardboardThickness decimal.Decimal
}

// ClicheOrder clichê corrugado fuera de conserto (termina en el paso 4).
type ClicheOrder struct {
	Header
	Machine       ClicheMachine
	Measures      entity.ClicheMeasures
	Profile       string
	ColorsPattern string
	Colors        []entity.ColorSetting
}

// ClicheRepairOrder conserto de clichê.
type ClicheRepairOrder struct {
	Header
	Machine ClicheMachine
	Repair  entity.ClicheRepair
}

// DieCutBlockOrder forma de corte fuera de conserto.
type DieCutBlockOrder struct {
	Header
	Machine  DieCutMachine
	Measures entity.DieCutBlockMeasures
}

// DieCutBlockRepairOrder conserto de forma de corte.
type DieCutBlockRepairOrder struct {
	Header
	Machine DieCutMachine
	Repair  entity.DieCutBlockRepair
}

func (ClicheOrder) Terminal() StepKey            { return Step4 }
func (ClicheRepairOrder) Terminal() StepKey      { return Step3ClicheCorrugatedRepair }
func (DieCutBlockOrder) Terminal() StepKey       { return Step3DieCutBlock }
func (DieCutBlockRepairOrder) Terminal() StepKey { return Step3DieCutBlockRepair }

// Variant construye la variante tipada a partir del formulario plano. Los
// campos de ramas no visitadas se descartan aquí.
func (f *Form) Variant() (Variant, error) {
	if !f.Product.Valid() {
		return nil, fmt.Errorf("producto %q: %w", f.Product, domain.ErrInvalidInput)
	}
	np := &numParser{verr: domain.NewValidationError()}
	h := buildHeader(f, np)

	var v Variant
	switch Terminal(f.Product, f.ProductType) {
	case Step4:
		colors := make([]entity.ColorSetting, 0, len(f.Colors))
		for i, c := range f.Colors {
			colors = append(colors, entity.ColorSetting{
				Color:     strings.TrimSpace(c.Color),
				Lineature: np.required(fmt.Sprintf("colors[%d].lineature", i), c.Lineature),
				Angle:     np.required(fmt.Sprintf("colors[%d].angle", i), c.Angle),
			})
		}
		v = ClicheOrder{
			Header:  h,
			Machine: clicheMachine(f, np),
			Measures: entity.ClicheMeasures{
				Width:  np.required("clicheWidth", f.ClicheWidth),
				Height: np.required("clicheHeight", f.ClicheHeight),
				Sets:   f.Sets,
			},
			Profile:       f.Profile.String(),
			ColorsPattern: f.ColorsPattern.String(),
			Colors:        colors,
		}
	case Step3ClicheCorrugatedRepair:
		v = ClicheRepairOrder{
			Header:  h,
			Machine: clicheMachine(f, np),
			Repair: entity.ClicheRepair{
				Description: strings.TrimSpace(f.ClicheRepairDescription),
				Colors:      SplitList(f.RepairColors),
				Area:        np.optional("repairArea", f.RepairArea),
			},
		}
	case Step3DieCutBlock:
		v = DieCutBlockOrder{
			Header:  h,
			Machine: dieCutMachine(f, np),
			Measures: entity.DieCutBlockMeasures{
				Width:       np.required("blockWidth", f.BlockWidth),
				Height:      np.required("blockHeight", f.BlockHeight),
				KnifeLength: np.required("knifeLength", f.KnifeLength),
			},
		}
	case Step3DieCutBlockRepair:
		v = DieCutBlockRepairOrder{
			Header:  h,
			Machine: dieCutMachine(f, np),
			Repair: entity.DieCutBlockRepair{
				Description: strings.TrimSpace(f.BlockRepairDescription),
				KnifeLength: np.optional("repairKnifeLength", f.RepairKnifeLength),
			},
		}
	}
	if err := np.verr.OrNil(); err != nil {
		return nil, err
	}
	return v, nil
}

func buildHeader(f *Form, np *numParser) Header {
	h := Header{
		Product:          f.Product,
		ProductType:      f.ProductType,
		Customer:         f.Customer.String(),
		ExternalCustomer: f.ExternalCustomer.String(),
		Operator:         f.Operator.String(),
		Transport:        f.Transport.String(),
		Title:            strings.TrimSpace(f.Title),
		Notes:            strings.TrimSpace(f.Notes),
		Budget:           np.optional("budget", f.Budget),
		TotalPrice:       np.optional("totalPrice", f.TotalPrice),
		PurchaseOrder:    SplitList(f.PurchaseOrder),
		NfNumber:         strings.TrimSpace(f.NfNumber),
	}
	if f.IsReplacement {
		h.Replacement = &entity.ReplacementDetails{
			Reason:               strings.TrimSpace(f.ReplacementReason),
			OriginalServiceOrder: strings.TrimSpace(f.OriginalServiceOrder),
		}
	}
	var err error
	if h.EntryDate, err = ParseDate(f.EntryDate); err != nil {
		np.verr.Add("entryDate", "fecha inválida (AAAA-MM-DD)")
	}
	if h.DispatchDate, err = parseOptionalDate(f.DispatchDate); err != nil {
		np.verr.Add("dispatchDate", "fecha inválida (AAAA-MM-DD)")
	}
	if h.BillingDate, err = parseOptionalDate(f.BillingDate); err != nil {
		np.verr.Add("billingDate", "fecha inválida (AAAA-MM-DD)")
	}
	return h
}

func clicheMachine(f *Form, np *numParser) ClicheMachine {
	return ClicheMachine{
		Printers:       entity.Options(f.Printers),
		PlateThickness: f.PlateThickness.String(),
		Cylinder:       strings.TrimSpace(f.Cylinder),
		Distortion:     np.required("distortion", f.Distortion),
	}
}

func dieCutMachine(f *Form, np *numParser) DieCutMachine {
	return DieCutMachine{
		Printers:           entity.Options(f.Printers),
		KnifeType:          f.KnifeType.String(),
		Wave:               f.Wave.String(),
		CardboardThickness: np.required("cardboardThickness", f.CardboardThickness),
	}
}

// SplitList separa texto delimitado por comas en entradas recortadas y no vacías.
// Nunca devuelve nil para que el JSON sea [] y no null.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// numParser convierte números pt-BR acumulando errores por campo.
type numParser struct {
	verr *domain.ValidationError
}

func (p *numParser) required(field, s string) decimal.Decimal {
	d, err := brnum.Parse(s)
	if err != nil {
		p.verr.Add(field, "número inválido")
	}
	return d
}

func (p *numParser) optional(field, s string) decimal.NullDecimal {
	d, err := brnum.ParseOptional(s)
	if err != nil {
		p.verr.Add(field, "número inválido")
	}
	return d
}
