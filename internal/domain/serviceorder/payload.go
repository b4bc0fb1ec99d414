package serviceorder

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/pkg/brnum"
)

// Payload cuerpo anidado de creación/edición de una orden de servicio. Los
// nombres JSON son el contrato con los clientes y no deben cambiar.
type Payload struct {
	Product            entity.Product             `json:"product"`
	ProductType        entity.ProductType         `json:"productType"`
	IsReplacement      bool                       `json:"isReplacement"`
	Replacement        *entity.ReplacementDetails `json:"replacement,omitempty"`
	Customer           string                     `json:"customer"`
	ExternalCustomer   string                     `json:"externalCustomer,omitempty"`
	Operator           string                     `json:"operator"`
	Transport          string                     `json:"transport,omitempty"`
	Title              string                     `json:"title"`
	EntryDate          Date                       `json:"entryDate"`
	DispatchDate       *Date                      `json:"dispatchDate,omitempty"`
	Notes              string                     `json:"notes,omitempty"`
	Budget             decimal.NullDecimal        `json:"budget"`
	TotalPrice         decimal.NullDecimal        `json:"totalPrice"`
	PurchaseOrder      []string                   `json:"purchaseOrder"`
	NfNumber           string                     `json:"nfNumber,omitempty"`
	BillingDate        *Date                      `json:"billingDate,omitempty"`
	PrinterDetails     *entity.PrinterDetails     `json:"printerDetails,omitempty"`
	DieCutBlockDetails *entity.DieCutBlockDetails `json:"dieCutBlockDetails,omitempty"`
}

// Format transforma el formulario plano en el payload anidado. Es puro: no hace
// I/O. Debe llamarse después de ValidateAll; un número mal formado devuelve
// *domain.ValidationError en lugar de un payload parcial.
func Format(f *Form) (Payload, error) {
	v, err := f.Variant()
	if err != nil {
		return Payload{}, err
	}
	return v.Payload(), nil
}

func (h Header) payload() Payload {
	return Payload{
		Product:          h.Product,
		ProductType:      h.ProductType,
		IsReplacement:    h.Replacement != nil,
		Replacement:      h.Replacement,
		Customer:         h.Customer,
		ExternalCustomer: h.ExternalCustomer,
		Operator:         h.Operator,
		Transport:        h.Transport,
		Title:            h.Title,
		EntryDate:        h.EntryDate,
		DispatchDate:     h.DispatchDate,
		Notes:            h.Notes,
		Budget:           h.Budget,
		TotalPrice:       h.TotalPrice,
		PurchaseOrder:    h.PurchaseOrder,
		NfNumber:         h.NfNumber,
		BillingDate:      h.BillingDate,
	}
}

// Payload colapsa la variante al formato común.
func (o ClicheOrder) Payload() Payload {
	p := o.Header.payload()
	measures := o.Measures
	p.PrinterDetails = &entity.PrinterDetails{
		Printers:       o.Machine.Printers,
		PlateThickness: o.Machine.PlateThickness,
		Cylinder:       o.Machine.Cylinder,
		Distortion:     o.Machine.Distortion,
		Measures:       &measures,
		Profile:        o.Profile,
		ColorsPattern:  o.ColorsPattern,
		Colors:         o.Colors,
	}
	return p
}

// Payload colapsa la variante al formato común.
func (o ClicheRepairOrder) Payload() Payload {
	p := o.Header.payload()
	repair := o.Repair
	p.PrinterDetails = &entity.PrinterDetails{
		Printers:       o.Machine.Printers,
		PlateThickness: o.Machine.PlateThickness,
		Cylinder:       o.Machine.Cylinder,
		Distortion:     o.Machine.Distortion,
		Repair:         &repair,
	}
	return p
}

// Payload colapsa la variante al formato común.
func (o DieCutBlockOrder) Payload() Payload {
	p := o.Header.payload()
	measures := o.Measures
	p.DieCutBlockDetails = &entity.DieCutBlockDetails{
		Printers:           o.Machine.Printers,
		KnifeType:          o.Machine.KnifeType,
		Wave:               o.Machine.Wave,
		CardboardThickness: o.Machine.CardboardThickness,
		Measures:           &measures,
	}
	return p
}

// Payload colapsa la variante al formato común.
func (o DieCutBlockRepairOrder) Payload() Payload {
	p := o.Header.payload()
	repair := o.Repair
	p.DieCutBlockDetails = &entity.DieCutBlockDetails{
		Printers:           o.Machine.Printers,
		KnifeType:          o.Machine.KnifeType,
		Wave:               o.Machine.Wave,
		CardboardThickness: o.Machine.CardboardThickness,
		Repair:             &repair,
	}
	return p
}

// ApplyTo copia el payload sobre la entidad (sin tocar id, estado ni archivos).
func (p Payload) ApplyTo(o *entity.ServiceOrder) {
	o.Product = p.Product
	o.ProductType = p.ProductType
	o.IsReplacement = p.IsReplacement
	o.Replacement = p.Replacement
	o.CustomerID = p.Customer
	o.ExternalCustomerID = p.ExternalCustomer
	o.OperatorID = p.Operator
	o.TransportID = p.Transport
	o.Title = p.Title
	o.EntryDate = p.EntryDate.Time
	o.DispatchDate = p.DispatchDate.Ptr()
	o.Notes = p.Notes
	o.Budget = p.Budget
	o.TotalPrice = p.TotalPrice
	o.PurchaseOrders = p.PurchaseOrder
	o.NfNumber = p.NfNumber
	o.BillingDate = p.BillingDate.Ptr()
	o.PrinterDetails = p.PrinterDetails
	o.DieCutBlockDetails = p.DieCutBlockDetails
}

// FormFromOrder reconstruye el formulario plano desde una orden existente
// (edición y reutilización).
func FormFromOrder(o *entity.ServiceOrder) *Form {
	f := &Form{
		Product:          o.Product,
		ProductType:      o.ProductType,
		IsReplacement:    o.IsReplacement,
		Customer:         entity.Option(o.CustomerID),
		ExternalCustomer: entity.Option(o.ExternalCustomerID),
		Operator:         entity.Option(o.OperatorID),
		Transport:        entity.Option(o.TransportID),
		Title:            o.Title,
		EntryDate:        dateFrom(&o.EntryDate),
		DispatchDate:     dateFrom(o.DispatchDate),
		Notes:            o.Notes,
		Budget:           nullInput(o.Budget),
		TotalPrice:       nullInput(o.TotalPrice),
		PurchaseOrder:    strings.Join(o.PurchaseOrders, ", "),
		NfNumber:         o.NfNumber,
		BillingDate:      dateFrom(o.BillingDate),
	}
	if o.Replacement != nil {
		f.ReplacementReason = o.Replacement.Reason
		f.OriginalServiceOrder = o.Replacement.OriginalServiceOrder
	}
	if d := o.PrinterDetails; d != nil {
		f.Printers = toOptions(d.Printers)
		f.PlateThickness = entity.Option(d.PlateThickness)
		f.Cylinder = d.Cylinder
		f.Distortion = brnum.Input(d.Distortion)
		if m := d.Measures; m != nil {
			f.ClicheWidth = brnum.Input(m.Width)
			f.ClicheHeight = brnum.Input(m.Height)
			f.Sets = m.Sets
		}
		if r := d.Repair; r != nil {
			f.ClicheRepairDescription = r.Description
			f.RepairColors = strings.Join(r.Colors, ", ")
			f.RepairArea = nullInput(r.Area)
		}
		f.Profile = entity.Option(d.Profile)
		f.ColorsPattern = entity.Option(d.ColorsPattern)
		for _, c := range d.Colors {
			f.Colors = append(f.Colors, ColorInput{
				Color:     c.Color,
				Lineature: brnum.Input(c.Lineature),
				Angle:     brnum.Input(c.Angle),
			})
		}
	}
	if d := o.DieCutBlockDetails; d != nil {
		f.Printers = toOptions(d.Printers)
		f.KnifeType = entity.Option(d.KnifeType)
		f.Wave = entity.Option(d.Wave)
		f.CardboardThickness = brnum.Input(d.CardboardThickness)
		if m := d.Measures; m != nil {
			f.BlockWidth = brnum.Input(m.Width)
			f.BlockHeight = brnum.Input(m.Height)
			f.KnifeLength = brnum.Input(m.KnifeLength)
		}
		if r := d.Repair; r != nil {
			f.BlockRepairDescription = r.Description
			f.RepairKnifeLength = nullInput(r.KnifeLength)
		}
	}
	return f
}

func nullInput(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return brnum.Input(d.Decimal)
}

func toOptions(vals []string) []entity.Option {
	out := make([]entity.Option, 0, len(vals))
	for _, v := range vals {
		out = append(out, entity.Option(v))
	}
	return out
}

// PayloadFromOrder payload anidado de una orden persistida (respuestas de la API).
func PayloadFromOrder(o *entity.ServiceOrder) Payload {
	p := Payload{
		Product:            o.Product,
		ProductType:        o.ProductType,
		IsReplacement:      o.IsReplacement,
		Replacement:        o.Replacement,
		Customer:           o.CustomerID,
		ExternalCustomer:   o.ExternalCustomerID,
		Operator:           o.OperatorID,
		Transport:          o.TransportID,
		Title:              o.Title,
		EntryDate:          Date{o.EntryDate},
		Notes:              o.Notes,
		Budget:             o.Budget,
		TotalPrice:         o.TotalPrice,
		PurchaseOrder:      o.PurchaseOrders,
		NfNumber:           o.NfNumber,
		PrinterDetails:     o.PrinterDetails,
		DieCutBlockDetails: o.DieCutBlockDetails,
	}
	if p.PurchaseOrder == nil {
		p.PurchaseOrder = []string{}
	}
	if o.DispatchDate != nil {
		p.DispatchDate = &Date{*o.DispatchDate}
	}
	if o.BillingDate != nil {
		p.BillingDate = &Date{*o.BillingDate}
	}
	return p
}
