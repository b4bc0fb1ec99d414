package serviceorder

import "github.com/jhoicas/Clicheria-api/internal/domain/entity"

// Campos (nombres Go) que cada paso enlaza y valida.
var stepFieldSets = map[StepKey][]string{
	Step1: {
		"Product", "ProductType", "Customer", "Operator", "Title", "EntryDate", "DispatchDate",
	},
	Step2ClicheCorrugated:       {"Printers", "PlateThickness", "Cylinder", "Distortion"},
	Step2DieCutBlock:            {"Printers", "KnifeType", "Wave", "CardboardThickness"},
	Step3ClicheCorrugated:       {"ClicheWidth", "ClicheHeight", "Sets"},
	Step3ClicheCorrugatedRepair: {"ClicheRepairDescription", "RepairColors", "RepairArea"},
	Step3DieCutBlock:            {"BlockWidth", "BlockHeight", "KnifeLength"},
	Step3DieCutBlockRepair:      {"BlockRepairDescription", "RepairKnifeLength"},
	Step4:                       {"ColorsPattern"},
}

// Campos de selección opcionales del paso 1 (sin reglas de schema).
var step1Optional = []string{"ExternalCustomer", "Transport"}

// replacementFields se superponen al paso 1 cuando IsReplacement está activo.
var replacementFields = []string{"ReplacementReason", "OriginalServiceOrder"}

// closingFields se validan en el paso terminal de cada secuencia.
var closingFields = []string{"Budget", "TotalPrice", "PurchaseOrder", "NfNumber", "BillingDate", "Notes"}

// step4Fields incluye los campos fuera del schema declarativo.
var step4Fields = []string{"Profile", "ColorsPattern", "Colors"}

// StepFields devuelve los campos (nombres Go) validados por el paso, según el
// estado actual del formulario.
func StepFields(s StepKey, f *Form) []string {
	fields := append([]string(nil), stepFieldSets[s]...)
	if s == Step1 && f.IsReplacement {
		fields = append(fields, replacementFields...)
	}
	if IsTerminal(s) && s == Terminal(f.Product, f.ProductType) {
		fields = append(fields, closingFields...)
	}
	return fields
}

// StepJSONFields nombres JSON de todos los campos que el paso enlaza, incluidos
// los opcionales sin reglas (útil para que el cliente sepa qué mostrar).
func StepJSONFields(s StepKey, f *Form) []string {
	goFields := StepFields(s, f)
	switch s {
	case Step1:
		goFields = append(goFields, "IsReplacement")
		goFields = append(goFields, step1Optional...)
	case Step4:
		goFields = append(append([]string(nil), step4Fields...), goFields...)
	}
	out := make([]string, 0, len(goFields))
	seen := map[string]bool{}
	for _, g := range goFields {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, JSONName(g))
	}
	return out
}

// branchFields campos propios de la rama de un producto (pasos 2, 3 y 4).
func branchFields(p entity.Product) []string {
	var steps []StepKey
	switch p {
	case entity.ProductClicheCorrugated:
		steps = []StepKey{Step2ClicheCorrugated, Step3ClicheCorrugated, Step3ClicheCorrugatedRepair}
	case entity.ProductDieCutBlock:
		steps = []StepKey{Step2DieCutBlock, Step3DieCutBlock, Step3DieCutBlockRepair}
	default:
		return nil
	}
	var out []string
	for _, s := range steps {
		out = append(out, stepFieldSets[s]...)
	}
	if p == entity.ProductClicheCorrugated {
		out = append(out, step4Fields...)
	}
	return out
}
