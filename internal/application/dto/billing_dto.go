package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers y PUT /api/customers/:id.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	TaxID string `json:"taxId" validate:"required,max=20"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=30"`
	City  string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"taxId"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	City  string `json:"city,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices: vincula órdenes a una NF.
type CreateInvoiceRequest struct {
	NfNumber        string   `json:"nfNumber" validate:"required,max=20"`
	CustomerID      string   `json:"customerId" validate:"required"`
	IssueDate       string   `json:"issueDate" validate:"required,datetime=2006-01-02"`
	ServiceOrderIDs []string `json:"serviceOrderIds" validate:"required,min=1,dive,required"`
	PurchaseOrder   string   `json:"purchaseOrder" validate:"omitempty,max=500"`
}

// InvoiceResponse nota fiscal con sus órdenes.
type InvoiceResponse struct {
	ID              string          `json:"id"`
	NfNumber        string          `json:"nfNumber"`
	CustomerID      string          `json:"customerId"`
	IssueDate       string          `json:"issueDate"`
	Total           decimal.Decimal `json:"total"`
	TotalLabel      string          `json:"totalLabel"`
	PurchaseOrders  []string        `json:"purchaseOrders"`
	ServiceOrderIDs []string        `json:"serviceOrderIds"`
	CreatedAt       time.Time       `json:"createdAt"`
}
