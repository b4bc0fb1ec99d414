package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

func TestRenderTicket_Cliche(t *testing.T) {
	dispatch := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	o := &entity.ServiceOrder{
		Number:       123,
		Status:       entity.StatusOpen,
		Product:      entity.ProductClicheCorrugated,
		ProductType:  entity.ProductTypeNew,
		Title:        "Caixa 40x30",
		EntryDate:    time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		DispatchDate: &dispatch,
		TotalPrice:   decimal.NewNullDecimal(decimal.RequireFromString("1234.56")),
		PrinterDetails: &entity.PrinterDetails{
			Printers:       []string{"p1"},
			PlateThickness: "2.84",
			Cylinder:       "120",
			Distortion:     decimal.RequireFromString("1.5"),
			Measures:       &entity.ClicheMeasures{Width: decimal.NewFromInt(40), Height: decimal.NewFromInt(30), Sets: 1},
			Colors: []entity.ColorSetting{
				{Color: "Preto", Lineature: decimal.NewFromInt(100), Angle: decimal.NewFromInt(45)},
			},
		},
		Notes: "Urgente",
	}

	b, err := NewTicketGenerator("Clicheria").RenderTicket(context.Background(), order.Ticket{
		Order: o, Customer: "ACME", Operator: "Ana",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRenderTicket_ConsertoDeForma(t *testing.T) {
	o := &entity.ServiceOrder{
		Number:      7,
		Status:      entity.StatusInProduction,
		Product:     entity.ProductDieCutBlock,
		ProductType: entity.ProductTypeRepair,
		Title:       "Forma caixa",
		EntryDate:   time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		DieCutBlockDetails: &entity.DieCutBlockDetails{
			Printers:           []string{"p1"},
			KnifeType:          "CORTE",
			Wave:               "BC",
			CardboardThickness: decimal.RequireFromString("6.5"),
			Repair:             &entity.DieCutBlockRepair{Description: "Troca de faca"},
		},
	}
	b, err := NewTicketGenerator("Clicheria").RenderTicket(context.Background(), order.Ticket{Order: o})
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestRenderTicket_OrdenNil(t *testing.T) {
	_, err := NewTicketGenerator("Clicheria").RenderTicket(context.Background(), order.Ticket{})
	assert.Error(t, err)
}
