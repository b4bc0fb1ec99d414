package serviceorder_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	so "github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
)

// hasOptionWrapper busca objetos {value,label} en cualquier nivel del JSON.
func hasOptionWrapper(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		_, hasValue := x["value"]
		_, hasLabel := x["label"]
		if hasValue && hasLabel {
			return true
		}
		for _, child := range x {
			if hasOptionWrapper(child) {
				return true
			}
		}
	case []any:
		for _, child := range x {
			if hasOptionWrapper(child) {
				return true
			}
		}
	}
	return false
}

func TestFormat_Cliche(t *testing.T) {
	f := newForm(t, clicheFormJSON)
	p, err := so.Format(f)
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.False(t, hasOptionWrapper(generic), "el payload no debe contener {value,label}: %s", raw)

	assert.Equal(t, entity.ProductClicheCorrugated, p.Product)
	assert.Equal(t, "cust-1", p.Customer)
	assert.Equal(t, "cust-2", p.ExternalCustomer)
	assert.Equal(t, []string{"OC-10", "OC-11"}, p.PurchaseOrder)
	assert.True(t, p.TotalPrice.Decimal.Equal(decimal.RequireFromString("1450.90")))
	assert.Equal(t, "2026-10-01", p.EntryDate.String())
	require.NotNil(t, p.DispatchDate)
	assert.Nil(t, p.DieCutBlockDetails)
	assert.Nil(t, p.Replacement)

	require.NotNil(t, p.PrinterDetails)
	d := p.PrinterDetails
	assert.Equal(t, []string{"pr-1", "pr-2"}, d.Printers)
	assert.Equal(t, "3.94", d.PlateThickness)
	assert.True(t, d.Distortion.Equal(decimal.RequireFromString("1.25")))
	require.NotNil(t, d.Measures)
	assert.True(t, d.Measures.Width.Equal(decimal.RequireFromString("1200.5")))
	assert.Equal(t, 2, d.Measures.Sets)
	assert.Nil(t, d.Repair)
	assert.Equal(t, "prof-1", d.Profile)
	require.Len(t, d.Colors, 1)
	assert.True(t, d.Colors[0].Angle.Equal(decimal.RequireFromString("7.5")))

	assert.Equal(t, "Caixa 40x30 frutas", generic["title"])
	assert.Contains(t, generic, "printerDetails")
	assert.NotContains(t, generic, "dieCutBlockDetails")
}

func TestFormat_ExcluyeRamasNoVisitadas(t *testing.T) {
	f := newForm(t, dieCutFormJSON)
	// Campos de clichê que quedaron en el formulario de una rama anterior.
	f.ClicheWidth = "10"
	f.Profile = "prof-9"

	p, err := so.Format(f)
	require.NoError(t, err)
	assert.Nil(t, p.PrinterDetails)
	require.NotNil(t, p.DieCutBlockDetails)
	d := p.DieCutBlockDetails
	require.NotNil(t, d.Measures)
	assert.Nil(t, d.Repair, "la descripción de conserto no aplica a una forma nueva")
	assert.True(t, d.Measures.KnifeLength.Equal(decimal.RequireFromString("12.8")))
	assert.Equal(t, []string{}, p.PurchaseOrder)
	assert.False(t, p.Budget.Valid)

	f.ProductType = entity.ProductTypeRepair
	p, err = so.Format(f)
	require.NoError(t, err)
	require.NotNil(t, p.DieCutBlockDetails.Repair)
	assert.Nil(t, p.DieCutBlockDetails.Measures)
	assert.Equal(t, "faca quebrada", p.DieCutBlockDetails.Repair.Description)
}

func TestFormat_Reposicion(t *testing.T) {
	f := newForm(t, dieCutFormJSON)
	f.IsReplacement = true
	f.ReplacementReason = " perdida "
	f.OriginalServiceOrder = "OS-120"

	p, err := so.Format(f)
	require.NoError(t, err)
	assert.True(t, p.IsReplacement)
	require.NotNil(t, p.Replacement)
	assert.Equal(t, "perdida", p.Replacement.Reason)
}

func TestFormat_NumeroInvalidoNoProducePayloadParcial(t *testing.T) {
	f := newForm(t, dieCutFormJSON)
	f.BlockHeight = "setenta"
	_, err := so.Format(f)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "blockHeight")
}

func TestFormat_PuntoDeMilesSinDecimales(t *testing.T) {
	f := newForm(t, dieCutFormJSON)
	f.TotalPrice = "2.450"
	f.Budget = "1.500"

	p, err := so.Format(f)
	require.NoError(t, err)
	assert.True(t, p.TotalPrice.Decimal.Equal(decimal.NewFromInt(2450)), "got %s", p.TotalPrice.Decimal)
	assert.True(t, p.Budget.Decimal.Equal(decimal.NewFromInt(1500)), "got %s", p.Budget.Decimal)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, so.SplitList(" a ,, b c ,"))
	assert.Equal(t, []string{}, so.SplitList(""))
}

func TestFormFromOrder_IdaYVuelta(t *testing.T) {
	f := newForm(t, clicheFormJSON)
	p, err := so.Format(f)
	require.NoError(t, err)

	order := &entity.ServiceOrder{CreatedAt: time.Now()}
	p.ApplyTo(order)
	back := so.FormFromOrder(order)

	p2, err := so.Format(back)
	require.NoError(t, err)
	b1, _ := json.Marshal(p)
	b2, _ := json.Marshal(p2)
	assert.JSONEq(t, string(b1), string(b2))
	assert.Equal(t, "OC-10, OC-11", back.PurchaseOrder)
	assert.Equal(t, "1200,5", back.ClicheWidth)
}
