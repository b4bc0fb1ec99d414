package entity

import "time"

// Printer impresora o máquina del cliente a la que se destina el clichê o la forma.
type Printer struct {
	ID         string
	CustomerID string
	Name       string
	Model      string
	Colors     int // número de cuerpos/colores
	CreatedAt  time.Time
}

// Transport transportadora usada en el despacho.
type Transport struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
