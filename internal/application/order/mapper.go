package order

import (
	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
	"github.com/jhoicas/Clicheria-api/pkg/brnum"
)

func (uc *UseCase) toResponse(o *entity.ServiceOrder) *dto.ServiceOrderResponse {
	return ToResponse(o)
}

// ToResponse arma la respuesta con el payload anidado de la orden.
func ToResponse(o *entity.ServiceOrder) *dto.ServiceOrderResponse {
	out := &dto.ServiceOrderResponse{
		ID:               o.ID,
		Number:           o.Number,
		Status:           string(o.Status),
		ProductLabel:     o.Product.Label(),
		ProductTypeLabel: o.ProductType.Label(),
		Files:            o.Files,
		InvoiceID:        o.InvoiceID,
		CreatedBy:        o.CreatedBy,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Data:             serviceorder.PayloadFromOrder(o),
		TotalPrice:       o.TotalPrice,
	}
	if o.TotalPrice.Valid {
		out.TotalPriceLabel = brnum.Currency(o.TotalPrice.Decimal)
	}
	return out
}
