package serviceorder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/pkg/brnum"
)

const msgRequired = "campo requerido"

// Validator valida el formulario por paso (parcial) o completo.
type Validator struct {
	v *validator.Validate
}

// NewValidator configura go-playground/validator con nombres JSON y reglas propias.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Si el registro falla el servidor no debe arrancar.
	if err := v.RegisterValidation("localnum", isLocalNumber); err != nil {
		panic("registrar validación localnum: " + err.Error())
	}
	return &Validator{v: v}
}

// isLocalNumber acepta números con formato pt-BR ("1.234,56").
func isLocalNumber(fl validator.FieldLevel) bool {
	return brnum.Valid(fl.Field().String())
}

// ValidateStep valida solo los campos del paso; los campos de pasos no
// visitados nunca bloquean el avance. Devuelve *domain.ValidationError o nil.
func (val *Validator) ValidateStep(f *Form, s StepKey) error {
	if !s.Valid() {
		return fmt.Errorf("paso desconocido %q: %w", s, domain.ErrInvalidInput)
	}
	verr := domain.NewValidationError()
	fields := StepFields(s, f)
	if len(fields) > 0 {
		if err := val.v.StructPartial(f, fields...); err != nil {
			if err := collect(verr, "", err); err != nil {
				return err
			}
		}
	}
	switch s {
	case Step1:
		if f.Product.Valid() && f.ProductType.Valid() && !f.Product.Allows(f.ProductType) {
			verr.Add("productType", fmt.Sprintf("tipo no disponible para %s", f.Product.Label()))
		}
	case Step4:
		for i := range f.Colors {
			if err := val.v.Struct(&f.Colors[i]); err != nil {
				if err := collect(verr, fmt.Sprintf("colors[%d].", i), err); err != nil {
					return err
				}
			}
		}
		guardProfile(f, verr)
	}
	return verr.OrNil()
}

// guardProfile exige perfil y patrón de colores salvo en órdenes de prueba.
// Se aplica fuera del schema declarativo.
func guardProfile(f *Form, verr *domain.ValidationError) {
	if f.ProductType == entity.ProductTypeTest {
		return
	}
	if strings.TrimSpace(f.Profile.String()) == "" {
		verr.Add("profile", msgRequired)
	}
	if strings.TrimSpace(f.ColorsPattern.String()) == "" {
		verr.Add("colorsPattern", msgRequired)
	}
}

// ValidateAll valida cada paso de la secuencia de producto y tipo, además de la
// guarda del paso 4 cuando la secuencia lo incluye. Se usa antes de enviar.
func (val *Validator) ValidateAll(f *Form) error {
	verr := domain.NewValidationError()
	for _, s := range Chain(f.Product, f.ProductType) {
		err := val.ValidateStep(f, s)
		if err == nil {
			continue
		}
		var stepErr *domain.ValidationError
		if !errors.As(err, &stepErr) {
			return err
		}
		verr.Merge(stepErr)
	}
	return verr.OrNil()
}

// collect traduce los errores del validador al mapa de campos.
func collect(verr *domain.ValidationError, prefix string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validar formulario: %w", err)
	}
	for _, fe := range verrs {
		verr.Add(prefix+fe.Field(), message(fe))
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "oneof":
		return "valor inválido"
	case "localnum":
		return "número inválido"
	case "datetime":
		return "fecha inválida (AAAA-MM-DD)"
	}
	return "valor inválido"
}
