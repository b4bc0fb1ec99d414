package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/domain"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ServiceOrderHandler API directa de órdenes de servicio (multipart con campo data).
type ServiceOrderHandler struct {
	uc       *order.UseCase
	maxBytes int64
}

// NewServiceOrderHandler construye el handler; maxUploadBytes limita cada adjunto.
func NewServiceOrderHandler(uc *order.UseCase, maxUploadBytes int64) *ServiceOrderHandler {
	return &ServiceOrderHandler{uc: uc, maxBytes: maxUploadBytes}
}

// Create godoc
// @Summary      Crear orden de servicio
// @Tags         service-orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        data              formData  string  true   "formulario JSON"
// @Param        file              formData  file    false  "arte"
// @Param        printSheet        formData  file    false  "hoja de impresión"
// @Param        dieCutBlockSheet  formData  file    false  "hoja de la forma"
// @Success      201   {object}  dto.ServiceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/service-orders [post]
func (h *ServiceOrderHandler) Create(c *fiber.Ctx) error {
	data, err := formData(c)
	if err != nil {
		return respondError(c, err)
	}
	files, closeFiles, err := readUploads(c, h.maxBytes)
	if err != nil {
		return respondError(c, err)
	}
	defer closeFiles()

	out, err := h.uc.CreateFromForm(c.UserContext(), GetUserID(c), data, files)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/service-orders/:id (multipart; el producto no cambia)
func (h *ServiceOrderHandler) Update(c *fiber.Ctx) error {
	data, err := formData(c)
	if err != nil {
		return respondError(c, err)
	}
	files, closeFiles, err := readUploads(c, h.maxBytes)
	if err != nil {
		return respondError(c, err)
	}
	defer closeFiles()

	out, err := h.uc.UpdateFromForm(c.UserContext(), c.Params("id"), data, files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reuse POST /api/service-orders/:id/reuse
func (h *ServiceOrderHandler) Reuse(c *fiber.Ctx) error {
	out, err := h.uc.Reuse(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/service-orders/:id
func (h *ServiceOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/service-orders?customerId=&product=&status=&from=&to=&search=&limit=&offset=
func (h *ServiceOrderHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus PATCH /api/service-orders/:id/status
func (h *ServiceOrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Ticket GET /api/service-orders/:id/ticket.pdf
func (h *ServiceOrderHandler) Ticket(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.TicketPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, mimePDF)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}

// Export GET /api/service-orders/export.xlsx (mismos filtros que List)
func (h *ServiceOrderHandler) Export(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := h.uc.ExportXLSX(c.UserContext(), q, &buf); err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("ordens_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, mimeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func listQuery(c *fiber.Ctx) (dto.ServiceOrderListQuery, error) {
	var q dto.ServiceOrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return q, domain.ErrInvalidInput
	}
	if err := validateStruct(q); err != nil {
		return q, err
	}
	return q, nil
}

// formData extrae el formulario JSON: campo "data" del multipart o el cuerpo JSON.
func formData(c *fiber.Ctx) ([]byte, error) {
	if !isMultipart(c) {
		if len(c.Body()) == 0 {
			return nil, domain.ErrInvalidInput
		}
		return append([]byte(nil), c.Body()...), nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	data := formValue(form, "data")
	if data == "" {
		verr := domain.NewValidationError()
		verr.Add("data", "campo obligatorio")
		return nil, verr
	}
	return []byte(data), nil
}
