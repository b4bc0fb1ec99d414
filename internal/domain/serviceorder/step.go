// Package serviceorder contiene el núcleo del asistente de creación de órdenes de
// servicio: secuencia de pasos, estado del formulario, validación por paso y el
// formateador del cuerpo enviado a la persistencia.
package serviceorder

import (
	"fmt"

	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// StepKey identifica una pantalla del asistente.
type StepKey string

// Pasos del asistente.
const (
	Step1                       StepKey = "Step1"
	Step2ClicheCorrugated       StepKey = "Step2ClicheCorrugated"
	Step2DieCutBlock            StepKey = "Step2DieCutBlock"
	Step3ClicheCorrugated       StepKey = "Step3ClicheCorrugated"
	Step3ClicheCorrugatedRepair StepKey = "Step3ClicheCorrugatedRepair"
	Step3DieCutBlock            StepKey = "Step3DieCutBlock"
	Step3DieCutBlockRepair      StepKey = "Step3DieCutBlockRepair"
	Step4                       StepKey = "Step4"
)

// InitialStep paso inicial de todo asistente.
const InitialStep = Step1

// AllSteps todos los pasos conocidos.
func AllSteps() []StepKey {
	return []StepKey{
		Step1, Step2ClicheCorrugated, Step2DieCutBlock,
		Step3ClicheCorrugated, Step3ClicheCorrugatedRepair,
		Step3DieCutBlock, Step3DieCutBlockRepair, Step4,
	}
}

// Valid indica si el paso es conocido.
func (s StepKey) Valid() bool {
	for _, k := range AllSteps() {
		if k == s {
			return true
		}
	}
	return false
}

// IsTerminal indica si el paso permite enviar la orden.
func IsTerminal(s StepKey) bool {
	switch s {
	case Step4, Step3DieCutBlock, Step3ClicheCorrugatedRepair, Step3DieCutBlockRepair:
		return true
	}
	return false
}

// IsStep2 indica si el paso es alguna variante del paso 2.
func IsStep2(s StepKey) bool {
	return s == Step2ClicheCorrugated || s == Step2DieCutBlock
}

// IsStep3 indica si el paso es alguna variante del paso 3.
func IsStep3(s StepKey) bool {
	switch s {
	case Step3ClicheCorrugated, Step3ClicheCorrugatedRepair, Step3DieCutBlock, Step3DieCutBlockRepair:
		return true
	}
	return false
}

// step2For variante del paso 2 para el producto.
func step2For(p entity.Product) StepKey {
	if p == entity.ProductDieCutBlock {
		return Step2DieCutBlock
	}
	return Step2ClicheCorrugated
}

// step3For variante del paso 3 para producto y tipo.
func step3For(p entity.Product, t entity.ProductType) StepKey {
	if p == entity.ProductDieCutBlock {
		if t.IsRepair() {
			return Step3DieCutBlockRepair
		}
		return Step3DieCutBlock
	}
	if t.IsRepair() {
		return Step3ClicheCorrugatedRepair
	}
	return Step3ClicheCorrugated
}

// Next calcula el paso siguiente. Los pasos terminales devuelven ErrNoForwardStep.
func Next(s StepKey, p entity.Product, t entity.ProductType) (StepKey, error) {
	switch {
	case s == Step1:
		return step2For(p), nil
	case IsStep2(s):
		return step3For(p, t), nil
	case s == Step3ClicheCorrugated:
		return Step4, nil
	case IsTerminal(s):
		return s, domain.ErrNoForwardStep
	}
	return s, fmt.Errorf("paso desconocido %q: %w", s, domain.ErrInvalidInput)
}

// Prev calcula el paso anterior recalculándolo desde producto y tipo actuales,
// sin pila de historial.
func Prev(s StepKey, p entity.Product, t entity.ProductType) (StepKey, error) {
	switch {
	case s == Step1:
		return s, domain.ErrNoBackStep
	case IsStep2(s):
		return Step1, nil
	case IsStep3(s):
		return step2For(p), nil
	case s == Step4:
		return step3For(p, t), nil
	}
	return s, fmt.Errorf("paso desconocido %q: %w", s, domain.ErrInvalidInput)
}

// Chain secuencia completa de pasos para producto y tipo, del inicial al terminal.
func Chain(p entity.Product, t entity.ProductType) []StepKey {
	chain := []StepKey{Step1}
	s := Step1
	for !IsTerminal(s) {
		next, err := Next(s, p, t)
		if err != nil {
			break
		}
		chain = append(chain, next)
		s = next
	}
	return chain
}

// Terminal paso terminal para producto y tipo.
func Terminal(p entity.Product, t entity.ProductType) StepKey {
	chain := Chain(p, t)
	return chain[len(chain)-1]
}

// InChain indica si el paso forma parte de la secuencia de producto y tipo.
func InChain(s StepKey, p entity.Product, t entity.ProductType) bool {
	for _, k := range Chain(p, t) {
		if k == s {
			return true
		}
	}
	return false
}
