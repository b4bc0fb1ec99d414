package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
)

func errorResponseFor(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return respondError(c, err) })

	resp, rerr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, rerr)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRespondError_MapeoDeEstados(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("get order: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{domain.ErrSubmitInProgress, http.StatusConflict, "SUBMIT_IN_PROGRESS"},
		{domain.ErrProductLocked, http.StatusConflict, "PRODUCT_LOCKED"},
		{domain.ErrNoBackStep, http.StatusConflict, "NO_BACK_STEP"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := errorResponseFor(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestRespondError_CamposDeValidacion(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("printers", "campo obligatorio")
	verr.Add("distortion", "campo obligatorio")

	status, body := errorResponseFor(t, fmt.Errorf("next: %w", verr))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, map[string]string{
		"printers":   "campo obligatorio",
		"distortion": "campo obligatorio",
	}, body.Fields)
}

func TestValidateStruct_UsaNombresJSON(t *testing.T) {
	err := validateStruct(dto.CreateInvoiceRequest{IssueDate: "18/10/2026"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "nfNumber")
	assert.Contains(t, verr.Fields, "customerId")
	assert.Contains(t, verr.Fields, "issueDate")
	assert.Contains(t, verr.Fields, "serviceOrderIds")

	assert.NoError(t, validateStruct(dto.CreateInvoiceRequest{
		NfNumber: "123", CustomerID: "c-1", IssueDate: "2026-10-18", ServiceOrderIDs: []string{"so-1"},
	}))
}
