package serviceorder

import "github.com/jhoicas/Clicheria-api/internal/domain/entity"

// ResetDependents limpia los campos que solo tenían sentido para la rama
// anterior tras un cambio de producto o tipo. Devuelve los nombres JSON limpiados.
//
//   - Cambio de producto: se limpian los pasos 2, 3 (ambas variantes) y 4 del
//     producto anterior.
//   - Cambio entre conserto y no conserto: se limpia la variante del paso 3 que
//     dejó de aplicar y el paso 4 si la nueva secuencia ya no lo incluye.
func ResetDependents(f *Form, prevProduct entity.Product, prevType entity.ProductType) []string {
	if prevProduct != "" && f.Product != prevProduct {
		return f.clearFields(branchFields(prevProduct)...)
	}
	if prevType == "" || prevType.IsRepair() == f.ProductType.IsRepair() {
		return nil
	}
	prevStep3 := step3For(f.Product, prevType)
	cleared := f.clearFields(stepFieldSets[prevStep3]...)
	if InChain(Step4, f.Product, prevType) && !InChain(Step4, f.Product, f.ProductType) {
		cleared = append(cleared, f.clearFields(step4Fields...)...)
	}
	return cleared
}
