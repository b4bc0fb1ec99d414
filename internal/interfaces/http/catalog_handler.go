package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/catalog"
	"github.com/jhoicas/Clicheria-api/internal/application/dto"
)

// CatalogHandler listas de referencia del formulario: impresoras, transportadoras, operadores.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreatePrinter POST /api/printers
func (h *CatalogHandler) CreatePrinter(c *fiber.Ctx) error {
	var in dto.CreatePrinterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreatePrinter(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPrinters GET /api/printers?customerId=...
func (h *CatalogHandler) ListPrinters(c *fiber.Ctx) error {
	list, err := h.uc.ListPrinters(c.UserContext(), c.Query("customerId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateTransport POST /api/transports
func (h *CatalogHandler) CreateTransport(c *fiber.Ctx) error {
	var in dto.CreateTransportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateTransport(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransports GET /api/transports
func (h *CatalogHandler) ListTransports(c *fiber.Ctx) error {
	list, err := h.uc.ListTransports(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListOperators GET /api/operators
func (h *CatalogHandler) ListOperators(c *fiber.Ctx) error {
	list, err := h.uc.ListOperators(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
