package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Product línea de producto de la orden de servicio.
type Product string

// Productos disponibles.
const (
	ProductClicheCorrugated Product = "CLICHE_CORRUGATED"
	ProductDieCutBlock      Product = "DIECUTBLOCK"
)

// ProductType tipo de trabajo solicitado.
type ProductType string

// Tipos de trabajo.
const (
	ProductTypeNew          ProductType = "NEW"
	ProductTypeAlteration   ProductType = "ALTERATION"
	ProductTypeRepair       ProductType = "REPAIR"
	ProductTypeReplacement  ProductType = "REPLACEMENT"
	ProductTypeReassembly   ProductType = "REASSEMBLY"
	ProductTypeReconfection ProductType = "RECONFECTION"
	ProductTypeReprint      ProductType = "REPRINT"
	ProductTypeTest         ProductType = "TEST"
)

var productLabels = map[Product]string{
	ProductClicheCorrugated: "Clichê Corrugado",
	ProductDieCutBlock:      "Forma de Corte",
}

var productTypeLabels = map[ProductType]string{
	ProductTypeNew:          "Novo",
	ProductTypeAlteration:   "Alteração",
	ProductTypeRepair:       "Conserto",
	ProductTypeReplacement:  "Reposição",
	ProductTypeReassembly:   "Remontagem",
	ProductTypeReconfection: "Reconfecção",
	ProductTypeReprint:      "Regravação",
	ProductTypeTest:         "Teste",
}

// allowedTypes lista de tipos ofrecidos por producto (orden de presentación).
var allowedTypes = map[Product][]ProductType{
	ProductClicheCorrugated: {
		ProductTypeNew, ProductTypeAlteration, ProductTypeRepair,
		ProductTypeReplacement, ProductTypeReprint, ProductTypeTest,
	},
	ProductDieCutBlock: {
		ProductTypeNew, ProductTypeAlteration, ProductTypeRepair,
		ProductTypeReassembly, ProductTypeReconfection,
	},
}

// Products devuelve los productos en orden de presentación.
func Products() []Product {
	return []Product{ProductClicheCorrugated, ProductDieCutBlock}
}

// Valid indica si el producto es conocido.
func (p Product) Valid() bool {
	_, ok := productLabels[p]
	return ok
}

// Label etiqueta de presentación (pt-BR).
func (p Product) Label() string {
	if l, ok := productLabels[p]; ok {
		return l
	}
	return string(p)
}

// AllowedTypes tipos de trabajo ofrecidos para el producto.
func (p Product) AllowedTypes() []ProductType {
	return append([]ProductType(nil), allowedTypes[p]...)
}

// Allows indica si el tipo pertenece a la lista del producto.
func (p Product) Allows(t ProductType) bool {
	for _, at := range allowedTypes[p] {
		if at == t {
			return true
		}
	}
	return false
}

// Valid indica si el tipo es conocido.
func (t ProductType) Valid() bool {
	_, ok := productTypeLabels[t]
	return ok
}

// Label etiqueta de presentación (pt-BR).
func (t ProductType) Label() string {
	if l, ok := productTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// IsRepair indica si el tipo sigue la rama de conserto.
func (t ProductType) IsRepair() bool { return t == ProductTypeRepair }

// UnmarshalJSON acepta "VALOR" o {"value":"VALOR","label":"..."}.
func (p *Product) UnmarshalJSON(b []byte) error {
	s, err := decodeOption(b)
	if err != nil {
		return fmt.Errorf("product: %w", err)
	}
	*p = Product(s)
	return nil
}

// UnmarshalJSON acepta "VALOR" o {"value":"VALOR","label":"..."}.
func (t *ProductType) UnmarshalJSON(b []byte) error {
	s, err := decodeOption(b)
	if err != nil {
		return fmt.Errorf("productType: %w", err)
	}
	*t = ProductType(s)
	return nil
}

// decodeOption reduce una opción de selección a su valor crudo.
func decodeOption(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '{' {
		var opt struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(b, &opt); err != nil {
			return "", err
		}
		return decodeOption(opt.Value)
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	// Números (ids numéricos de catálogos antiguos) se aceptan como texto.
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", fmt.Errorf("opción inválida: %s", string(b))
	}
	return n.String(), nil
}
