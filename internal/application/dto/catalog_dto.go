package dto

// CreatePrinterRequest body para POST /api/printers.
type CreatePrinterRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
	Name       string `json:"name" validate:"required,max=120"`
	Model      string `json:"model" validate:"omitempty,max=120"`
	Colors     int    `json:"colors" validate:"min=0,max=12"`
}

// PrinterResponse impresora del catálogo.
type PrinterResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	Colors     int    `json:"colors"`
}

// CreateTransportRequest body para POST /api/transports.
type CreateTransportRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

// TransportResponse transportadora del catálogo.
type TransportResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
