package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOrderListQuery filtros de GET /api/service-orders.
type ServiceOrderListQuery struct {
	CustomerID  string `query:"customerId"`
	OperatorID  string `query:"operatorId"`
	Product     string `query:"product" validate:"omitempty,oneof=CLICHE_CORRUGATED DIECUTBLOCK"`
	ProductType string `query:"productType"`
	Status      string `query:"status" validate:"omitempty,oneof=OPEN IN_PRODUCTION DISPATCHED INVOICED CANCELLED"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Search      string `query:"search"`
	Limit       int    `query:"limit"`
	Offset      int    `query:"offset"`
}

// ChangeStatusRequest body para PATCH /api/service-orders/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PRODUCTION DISPATCHED INVOICED CANCELLED"`
}

// ServiceOrderResponse orden de servicio: el payload anidado más los metadatos.
type ServiceOrderResponse struct {
	ID               string              `json:"id"`
	Number           int64               `json:"number"`
	Status           string              `json:"status"`
	ProductLabel     string              `json:"productLabel"`
	ProductTypeLabel string              `json:"productTypeLabel"`
	Files            any                 `json:"files"`
	InvoiceID        string              `json:"invoiceId,omitempty"`
	CreatedBy        string              `json:"createdBy"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	Data             any                 `json:"data"`
	TotalPriceLabel  string              `json:"totalPriceLabel,omitempty"`
	TotalPrice       decimal.NullDecimal `json:"-"`
}

// ServiceOrderListResponse página de órdenes.
type ServiceOrderListResponse struct {
	Items []ServiceOrderResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
