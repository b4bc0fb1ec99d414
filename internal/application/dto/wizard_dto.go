package dto

import (
	"encoding/json"
	"time"
)

// Modos de inicio del asistente.
const (
	WizardModeCreate = "create"
	WizardModeEdit   = "edit"
	WizardModeReuse  = "reuse"
)

// StartWizardRequest body para POST /api/wizard/drafts.
type StartWizardRequest struct {
	Mode           string `json:"mode" validate:"required,oneof=create edit reuse"`
	ServiceOrderID string `json:"serviceOrderId" validate:"required_unless=Mode create"`
}

// PatchDraftRequest body para PATCH /api/wizard/drafts/:id: campos del formulario.
type PatchDraftRequest struct {
	Fields json.RawMessage `json:"fields"`
}

// DraftResponse estado del asistente devuelto al cliente.
type DraftResponse struct {
	ID             string          `json:"id"`
	Mode           string          `json:"mode"`
	ServiceOrderID string          `json:"serviceOrderId,omitempty"`
	Step           string          `json:"step"`
	StepFields     []string        `json:"stepFields"`
	Chain          []string        `json:"chain"`
	CanSubmit      bool            `json:"canSubmit"`
	CanGoBack      bool            `json:"canGoBack"`
	Submitting     bool            `json:"submitting"`
	Form           json.RawMessage `json:"form"`
	Cleared        []string        `json:"cleared,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ProductOptionsResponse listas de opciones del paso 1 (GET /api/wizard/options).
type ProductOptionsResponse struct {
	Products     []OptionDTO            `json:"products"`
	ProductTypes map[string][]OptionDTO `json:"productTypes"`
}
