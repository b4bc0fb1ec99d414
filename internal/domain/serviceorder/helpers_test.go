package serviceorder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
)

// clicheFormJSON formulario completo de clichê corrugado tal como lo envía la UI,
// con opciones en formato {value,label}.
const clicheFormJSON = `{
	"product": {"value": "CLICHE_CORRUGATED", "label": "Clichê Corrugado"},
	"productType": {"value": "NEW", "label": "Novo"},
	"customer": {"value": "cust-1", "label": "Embalagens Sul"},
	"externalCustomer": {"value": "cust-2", "label": "Papelão Norte"},
	"operator": {"value": "user-7", "label": "Ana"},
	"transport": {"value": "tr-1", "label": "Rápido"},
	"title": "Caixa 40x30 frutas",
	"entryDate": "2026-10-01",
	"dispatchDate": "2026-10-10",
	"printers": [{"value": "pr-1", "label": "Martin 618"}, {"value": "pr-2", "label": "Bobst"}],
	"plateThickness": {"value": "3.94", "label": "3,94 mm"},
	"cylinder": "Ø 420",
	"distortion": "1,25",
	"clicheWidth": "1.200,50",
	"clicheHeight": "80,0",
	"sets": 2,
	"profile": {"value": "prof-1", "label": "Perfil A"},
	"colorsPattern": {"value": "CMYK", "label": "CMYK"},
	"colors": [{"color": "Ciano", "lineature": "85", "angle": "7,5"}],
	"budget": "1.500,00",
	"totalPrice": "1.450,90",
	"purchaseOrder": " OC-10 , ,OC-11,",
	"notes": "urgente"
}`

// dieCutFormJSON formulario completo de forma de corte.
const dieCutFormJSON = `{
	"product": "DIECUTBLOCK",
	"productType": "NEW",
	"customer": "cust-1",
	"operator": "user-7",
	"title": "Forma caixa pizza",
	"entryDate": "2026-10-01",
	"printers": ["pr-9"],
	"knifeType": "CORTE_VINCO",
	"wave": "BC",
	"cardboardThickness": "6,5",
	"blockWidth": "100",
	"blockHeight": "70,5",
	"knifeLength": "12,8",
	"blockRepairDescription": "faca quebrada",
	"repairKnifeLength": "1,5"
}`

func newForm(t *testing.T, raw string) *serviceorder.Form {
	t.Helper()
	f := &serviceorder.Form{}
	require.NoError(t, f.Apply([]byte(raw)))
	return f
}
