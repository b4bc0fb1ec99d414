package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/application/wizard"
)

// WizardHandler expone el asistente de órdenes: borradores, navegación y envío.
type WizardHandler struct {
	uc       *wizard.UseCase
	maxBytes int64
}

// NewWizardHandler construye el handler; maxUploadBytes limita cada adjunto.
func NewWizardHandler(uc *wizard.UseCase, maxUploadBytes int64) *WizardHandler {
	return &WizardHandler{uc: uc, maxBytes: maxUploadBytes}
}

// Options GET /api/wizard/options
func (h *WizardHandler) Options(c *fiber.Ctx) error {
	return c.JSON(wizard.ProductOptions())
}

// Start godoc
// @Summary      Iniciar asistente (create, edit o reuse)
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartWizardRequest  true  "modo y orden de origen"
// @Success      201   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/wizard/drafts [post]
func (h *WizardHandler) Start(c *fiber.Ctx) error {
	var in dto.StartWizardRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Start(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/wizard/drafts/:id
func (h *WizardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Patch godoc
// @Summary      Actualizar campos del borrador (aplica las reglas de limpieza)
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "borrador"
// @Param        body  body  dto.PatchDraftRequest  true  "campos"
// @Success      200   {object}  dto.DraftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/wizard/drafts/{id} [patch]
func (h *WizardHandler) Patch(c *fiber.Ctx) error {
	var in dto.PatchDraftRequest
	if err := c.BodyParser(&in); err != nil || len(in.Fields) == 0 {
		return badBody(c)
	}
	out, err := h.uc.Patch(c.UserContext(), GetUserID(c), c.Params("id"), in.Fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Next POST /api/wizard/drafts/:id/next
func (h *WizardHandler) Next(c *fiber.Ctx) error {
	out, err := h.uc.Next(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Back POST /api/wizard/drafts/:id/back
func (h *WizardHandler) Back(c *fiber.Ctx) error {
	out, err := h.uc.Back(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar el borrador (multipart opcional con adjuntos)
// @Tags         wizard
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                path      string  true   "borrador"
// @Param        file              formData  file    false  "arte"
// @Param        printSheet        formData  file    false  "hoja de impresión"
// @Param        dieCutBlockSheet  formData  file    false  "hoja de la forma"
// @Success      201   {object}  dto.ServiceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/wizard/drafts/{id}/submit [post]
func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	files, closeFiles, err := readUploads(c, h.maxBytes)
	if err != nil {
		return respondError(c, err)
	}
	defer closeFiles()

	out, err := h.uc.Submit(c.UserContext(), GetUserID(c), c.Params("id"), files)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Discard DELETE /api/wizard/drafts/:id
func (h *WizardHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.Discard(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
