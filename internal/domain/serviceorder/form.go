package serviceorder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// Form estado plano del asistente: todos los campos de todos los pasos.
// La navegación nunca limpia campos; solo ResetDependents lo hace.
type Form struct {
	// Paso 1: identificación.
	Product              entity.Product     `json:"product" validate:"required,oneof=CLICHE_CORRUGATED DIECUTBLOCK"`
	ProductType          entity.ProductType `json:"productType" validate:"required,oneof=NEW ALTERATION REPAIR REPLACEMENT REASSEMBLY RECONFECTION REPRINT TEST"`
	IsReplacement        bool               `json:"isReplacement"`
	ReplacementReason    string             `json:"replacementReason" validate:"required,max=500"`
	OriginalServiceOrder string             `json:"originalServiceOrder" validate:"omitempty,max=64"`
	Customer             entity.Option      `json:"customer" validate:"required"`
	ExternalCustomer     entity.Option      `json:"externalCustomer"`
	Operator             entity.Option      `json:"operator" validate:"required"`
	Transport            entity.Option      `json:"transport"`
	Title                string             `json:"title" validate:"required,max=160"`
	EntryDate            string             `json:"entryDate" validate:"required,datetime=2006-01-02"`
	DispatchDate         string             `json:"dispatchDate" validate:"omitempty,datetime=2006-01-02"`

	// Paso 2 (ambos productos comparten la lista de máquinas).
	Printers []entity.Option `json:"printers" validate:"required,min=1,dive,required"`

	// Paso 2: clichê corrugado.
	PlateThickness entity.Option `json:"plateThickness" validate:"required,oneof=1.14 1.70 2.28 2.84 3.94 6.35"`
	Cylinder       string        `json:"cylinder" validate:"required,max=40"`
	Distortion     string        `json:"distortion" validate:"required,localnum"`

	// Paso 2: forma de corte.
	KnifeType          entity.Option `json:"knifeType" validate:"required,oneof=CORTE VINCO CORTE_VINCO PICOTE"`
	Wave               entity.Option `json:"wave" validate:"required,oneof=B C E BC EB"`
	CardboardThickness string        `json:"cardboardThickness" validate:"required,localnum"`

	// Paso 3: clichê corrugado.
	ClicheWidth  string `json:"clicheWidth" validate:"required,localnum"`
	ClicheHeight string `json:"clicheHeight" validate:"required,localnum"`
	Sets         int    `json:"sets" validate:"required,min=1,max=99"`

	// Paso 3: conserto de clichê.
	ClicheRepairDescription string `json:"clicheRepairDescription" validate:"required,max=1000"`
	RepairColors            string `json:"repairColors" validate:"omitempty,max=300"`
	RepairArea              string `json:"repairArea" validate:"omitempty,localnum"`

	// Paso 3: forma de corte.
	BlockWidth  string `json:"blockWidth" validate:"required,localnum"`
	BlockHeight string `json:"blockHeight" validate:"required,localnum"`
	KnifeLength string `json:"knifeLength" validate:"required,localnum"`

	// Paso 3: conserto de forma.
	BlockRepairDescription string `json:"blockRepairDescription" validate:"required,max=1000"`
	RepairKnifeLength      string `json:"repairKnifeLength" validate:"omitempty,localnum"`

	// Paso 4: perfil y colores. Profile y ColorsPattern se exigen fuera del schema.
	Profile       entity.Option `json:"profile"`
	ColorsPattern entity.Option `json:"colorsPattern" validate:"omitempty,oneof=CMYK PANTONE CMYK_PANTONE LINE"`
	Colors        []ColorInput  `json:"colors"`

	// Cierre: se valida en el paso terminal de la secuencia.
	Budget        string `json:"budget" validate:"omitempty,localnum"`
	TotalPrice    string `json:"totalPrice" validate:"omitempty,localnum"`
	PurchaseOrder string `json:"purchaseOrder" validate:"omitempty,max=500"`
	NfNumber      string `json:"nfNumber" validate:"omitempty,max=20"`
	BillingDate   string `json:"billingDate" validate:"omitempty,datetime=2006-01-02"`
	Notes         string `json:"notes" validate:"omitempty,max=2000"`
}

// ColorInput ajuste por canal tal como lo escribe el usuario.
type ColorInput struct {
	Color     string `json:"color" validate:"required,max=40"`
	Lineature string `json:"lineature" validate:"required,localnum"`
	Angle     string `json:"angle" validate:"required,localnum"`
}

// Apply mezcla un parche JSON sobre el formulario. Solo cambian las claves
// presentes; claves desconocidas devuelven error de validación.
func (f *Form) Apply(patch []byte) error {
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		verr := domain.NewValidationError()
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			verr.Add(typeErr.Field, "tipo inválido")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			verr.Add(name, "campo desconocido")
		default:
			return fmt.Errorf("parche inválido: %w", domain.ErrInvalidInput)
		}
		return verr
	}
	return nil
}

// Clone copia profunda del formulario.
func (f *Form) Clone() *Form {
	c := *f
	c.Printers = append([]entity.Option(nil), f.Printers...)
	c.Colors = append([]ColorInput(nil), f.Colors...)
	return &c
}

var formType = reflect.TypeOf(Form{})

// JSONName devuelve el nombre JSON de un campo Go del formulario.
func JSONName(goField string) string {
	sf, ok := formType.FieldByName(goField)
	if !ok {
		return goField
	}
	name := strings.Split(sf.Tag.Get("json"), ",")[0]
	if name == "" {
		return goField
	}
	return name
}

// clearFields pone en cero los campos indicados (nombres Go) y devuelve los
// nombres JSON de los que tenían valor.
func (f *Form) clearFields(goFields ...string) []string {
	rv := reflect.ValueOf(f).Elem()
	var cleared []string
	for _, name := range goFields {
		fv := rv.FieldByName(name)
		if !fv.IsValid() || fv.IsZero() {
			continue
		}
		fv.Set(reflect.Zero(fv.Type()))
		cleared = append(cleared, JSONName(name))
	}
	return cleared
}
