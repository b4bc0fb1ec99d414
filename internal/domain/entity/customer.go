package entity

import "time"

// Customer representa un cliente (solicitante o destinatario de la facturación).
type Customer struct {
	ID        string
	Name      string
	TaxID     string // CNPJ o CPF
	Email     string
	Phone     string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
