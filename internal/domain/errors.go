package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Asistente de órdenes de servicio.
	ErrNoForwardStep     = errors.New("el paso actual no tiene siguiente")
	ErrNoBackStep        = errors.New("el paso actual no tiene anterior")
	ErrNotTerminal       = errors.New("el paso actual no permite enviar")
	ErrSubmitInProgress  = errors.New("envío en curso")
	ErrProductLocked     = errors.New("el producto no se puede cambiar en edición")
	ErrStepLocked        = errors.New("producto y tipo solo se cambian en los pasos 1 y 2")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// ValidationError agrupa errores de campo (clave = nombre JSON del campo).
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError vacío.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add registra un error de campo; conserva el primero si ya existía.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Merge copia los campos de otro ValidationError.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for k, v := range other.Fields {
		e.Add(k, v)
	}
}

// Empty indica si no hay errores registrados.
func (e *ValidationError) Empty() bool { return e == nil || len(e.Fields) == 0 }

// OrNil devuelve nil si no hay errores, para usar como `return verr.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput) sobre errores de validación.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
