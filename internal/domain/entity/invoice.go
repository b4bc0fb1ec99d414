package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice nota fiscal que agrupa órdenes de servicio facturadas.
type Invoice struct {
	ID              string
	NfNumber        string
	CustomerID      string
	IssueDate       time.Time
	Total           decimal.Decimal
	PurchaseOrders  []string
	ServiceOrderIDs []string
	CreatedBy       string
	CreatedAt       time.Time
}
