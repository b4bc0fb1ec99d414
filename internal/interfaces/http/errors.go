package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings orden de evaluación: el primero que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE", "el email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "recurso duplicado"},
	{domain.ErrSubmitInProgress, fiber.StatusConflict, "SUBMIT_IN_PROGRESS", "ya hay un envío en curso para este borrador"},
	{domain.ErrProductLocked, fiber.StatusConflict, "PRODUCT_LOCKED", "el producto no se puede cambiar en edición"},
	{domain.ErrStepLocked, fiber.StatusConflict, "STEP_LOCKED", "producto y tipo solo se cambian en los pasos 1 y 2"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "transición de estado no permitida"},
	{domain.ErrNoForwardStep, fiber.StatusConflict, "NO_FORWARD_STEP", "el paso actual no tiene siguiente"},
	{domain.ErrNoBackStep, fiber.StatusConflict, "NO_BACK_STEP", "el paso actual no tiene anterior"},
	{domain.ErrNotTerminal, fiber.StatusConflict, "NOT_TERMINAL", "el paso actual no permite enviar"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
}

// respondError traduce un error de dominio a dto.ErrorResponse. Los errores
// de validación llevan el detalle por campo en Fields.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "hay campos inválidos", Fields: verr.Fields,
		})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
