// Package wizard implementa la sesión del asistente de órdenes de servicio:
// un borrador por sesión, navegación entre pasos con validación parcial y el
// envío único que persiste la orden.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
	"github.com/jhoicas/Clicheria-api/pkg/metrics"
)

const (
	// submitLockTTL vida máxima de la marca de envío si el proceso muere a mitad.
	submitLockTTL = 2 * time.Minute
	// saveLockTTL vida de la marca mientras se guarda un cambio del borrador.
	saveLockTTL = 10 * time.Second
)

// UseCase casos de uso del asistente.
type UseCase struct {
	store     DraftStore
	orders    OrderService
	validator *serviceorder.Validator
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(store DraftStore, orders OrderService, validator *serviceorder.Validator, log *logger.Logger) *UseCase {
	return &UseCase{
		store:     store,
		orders:    orders,
		validator: validator,
		log:       log.Component("wizard"),
		now:       time.Now,
	}
}

// Start abre un borrador en el paso 1. En edición y reutilización el
// formulario se prellena desde la orden indicada.
func (uc *UseCase) Start(ctx context.Context, userID string, in dto.StartWizardRequest) (*dto.DraftResponse, error) {
	now := uc.now()
	d := &Draft{
		ID:        uuid.New().String(),
		Mode:      in.Mode,
		OwnerID:   userID,
		Step:      serviceorder.InitialStep,
		UpdatedAt: now,
	}
	switch in.Mode {
	case dto.WizardModeCreate:
		d.Form = &serviceorder.Form{EntryDate: now.Format(serviceorder.DateLayout)}
	case dto.WizardModeEdit, dto.WizardModeReuse:
		if in.ServiceOrderID == "" {
			return nil, domain.ErrInvalidInput
		}
		o, err := uc.orders.GetEntity(ctx, in.ServiceOrderID)
		if err != nil {
			return nil, err
		}
		d.Form = serviceorder.FormFromOrder(o)
		if in.Mode == dto.WizardModeEdit {
			d.SourceOrderID = o.ID
		} else {
			d.Form.EntryDate = now.Format(serviceorder.DateLayout)
			d.Form.DispatchDate = ""
			d.Form.NfNumber = ""
			d.Form.BillingDate = ""
			d.Form.PurchaseOrder = ""
		}
	default:
		return nil, fmt.Errorf("modo %q: %w", in.Mode, domain.ErrInvalidInput)
	}
	if err := uc.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	return uc.toResponse(ctx, d, nil)
}

// Get devuelve el estado actual del borrador.
func (uc *UseCase) Get(ctx context.Context, userID, id string) (*dto.DraftResponse, error) {
	d, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, d, nil)
}

// Patch mezcla campos en el formulario. Cambiar producto o tipo solo se
// permite en los pasos 1 y 2 y limpia los campos de la rama anterior; en
// edición el producto no cambia.
func (uc *UseCase) Patch(ctx context.Context, userID, id string, patch []byte) (*dto.DraftResponse, error) {
	d, err := uc.mutable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	next := d.Form.Clone()
	if err := next.Apply(patch); err != nil {
		return nil, err
	}

	productChanged := next.Product != d.Form.Product
	typeChanged := next.ProductType != d.Form.ProductType
	var cleared []string
	if productChanged || typeChanged {
		if productChanged && d.Mode == dto.WizardModeEdit {
			return nil, domain.ErrProductLocked
		}
		if d.Step != serviceorder.Step1 && !serviceorder.IsStep2(d.Step) {
			return nil, domain.ErrStepLocked
		}
		if productChanged && serviceorder.IsStep2(d.Step) && !next.Product.Valid() {
			verr := domain.NewValidationError()
			verr.Add("product", "valor inválido")
			return nil, verr
		}
		cleared = serviceorder.ResetDependents(next, d.Form.Product, d.Form.ProductType)
		if productChanged && serviceorder.IsStep2(d.Step) {
			// El paso 2 visible pasa a ser el del producto nuevo.
			d.Step, _ = serviceorder.Next(serviceorder.Step1, next.Product, next.ProductType)
		}
	}

	d.Form = next
	d.UpdatedAt = uc.now()
	if err := uc.saveCurrent(ctx, d); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, d, cleared)
}

// Next valida los campos del paso actual y avanza. En un paso terminal
// devuelve ErrNoForwardStep.
func (uc *UseCase) Next(ctx context.Context, userID, id string) (*dto.DraftResponse, error) {
	d, err := uc.mutable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateStep(d.Form, d.Step); err != nil {
		return nil, err
	}
	step, err := serviceorder.Next(d.Step, d.Form.Product, d.Form.ProductType)
	if err != nil {
		return nil, err
	}
	d.Step = step
	d.UpdatedAt = uc.now()
	if err := uc.saveCurrent(ctx, d); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, d, nil)
}

// Back retrocede un paso sin validar ni limpiar campos.
func (uc *UseCase) Back(ctx context.Context, userID, id string) (*dto.DraftResponse, error) {
	d, err := uc.mutable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	step, err := serviceorder.Prev(d.Step, d.Form.Product, d.Form.ProductType)
	if err != nil {
		return nil, err
	}
	d.Step = step
	d.UpdatedAt = uc.now()
	if err := uc.saveCurrent(ctx, d); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, d, nil)
}

// Submit valida todo el formulario, lo formatea y persiste la orden. Solo se
// permite desde el paso terminal y con un único envío en curso. Si falla, el
// borrador se conserva para reintentar; si tiene éxito, se descarta.
func (uc *UseCase) Submit(ctx context.Context, userID, id string, files order.Uploads) (resp *dto.ServiceOrderResponse, err error) {
	d, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !serviceorder.IsTerminal(d.Step) || d.Step != serviceorder.Terminal(d.Form.Product, d.Form.ProductType) {
		return nil, domain.ErrNotTerminal
	}

	ok, err := uc.store.TryLock(ctx, id, submitLockTTL)
	if err != nil {
		return nil, fmt.Errorf("marca de envío: %w", err)
	}
	if !ok {
		return nil, domain.ErrSubmitInProgress
	}
	defer func() {
		uc.unlock(ctx, id)
		metrics.RecordSubmit(d.Mode, err)
	}()

	// Otro envío pudo terminar entre la lectura y la marca.
	if d, err = uc.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if d.Step != serviceorder.Terminal(d.Form.Product, d.Form.ProductType) {
		return nil, domain.ErrNotTerminal
	}

	if err = uc.validator.ValidateAll(d.Form); err != nil {
		return nil, err
	}
	payload, err := serviceorder.Format(d.Form)
	if err != nil {
		return nil, err
	}

	if d.Mode == dto.WizardModeEdit {
		resp, err = uc.orders.Update(ctx, d.SourceOrderID, payload, files)
	} else {
		resp, err = uc.orders.Create(ctx, userID, payload, files)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("draft_id", id).Str("mode", d.Mode).Msg("envío fallido, borrador conservado")
		return nil, err
	}

	if derr := uc.store.Delete(ctx, id); derr != nil {
		uc.log.Warn().Err(derr).Str("draft_id", id).Msg("no se pudo descartar el borrador")
	}
	uc.log.Info().Str("draft_id", id).Str("order_id", resp.ID).Str("mode", d.Mode).Msg("orden enviada")
	return resp, nil
}

// Discard elimina el borrador.
func (uc *UseCase) Discard(ctx context.Context, userID, id string) error {
	if _, err := uc.mutable(ctx, userID, id); err != nil {
		return err
	}
	ok, err := uc.store.TryLock(ctx, id, saveLockTTL)
	if err != nil {
		return fmt.Errorf("marca de borrador: %w", err)
	}
	if !ok {
		return domain.ErrSubmitInProgress
	}
	defer uc.unlock(ctx, id)
	return uc.store.Delete(ctx, id)
}

// ProductOptions listas de selección del paso 1.
func ProductOptions() *dto.ProductOptionsResponse {
	out := &dto.ProductOptionsResponse{ProductTypes: map[string][]dto.OptionDTO{}}
	for _, p := range entity.Products() {
		out.Products = append(out.Products, dto.OptionDTO{Value: string(p), Label: p.Label()})
		types := make([]dto.OptionDTO, 0, len(p.AllowedTypes()))
		for _, t := range p.AllowedTypes() {
			types = append(types, dto.OptionDTO{Value: string(t), Label: t.Label()})
		}
		out.ProductTypes[string(p)] = types
	}
	return out
}

// owned carga el borrador y verifica que pertenezca al usuario.
func (uc *UseCase) owned(ctx context.Context, userID, id string) (*Draft, error) {
	d, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	if d.Form == nil {
		d.Form = &serviceorder.Form{}
	}
	return d, nil
}

// mutable como owned pero rechaza cambios mientras hay un envío en curso.
func (uc *UseCase) mutable(ctx context.Context, userID, id string) (*Draft, error) {
	d, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	locked, err := uc.store.Locked(ctx, id)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, domain.ErrSubmitInProgress
	}
	return d, nil
}

// saveCurrent guarda el borrador bajo la marca y solo si sigue existiendo, para
// no recrear uno que un envío o un descarte ya eliminó.
func (uc *UseCase) saveCurrent(ctx context.Context, d *Draft) error {
	ok, err := uc.store.TryLock(ctx, d.ID, saveLockTTL)
	if err != nil {
		return fmt.Errorf("marca de borrador: %w", err)
	}
	if !ok {
		return domain.ErrSubmitInProgress
	}
	defer uc.unlock(ctx, d.ID)

	cur, err := uc.store.Get(ctx, d.ID)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	if err := uc.store.Save(ctx, d); err != nil {
		return fmt.Errorf("guardar borrador: %w", err)
	}
	return nil
}

func (uc *UseCase) unlock(ctx context.Context, id string) {
	if err := uc.store.Unlock(context.WithoutCancel(ctx), id); err != nil {
		uc.log.Warn().Err(err).Str("draft_id", id).Msg("no se pudo liberar la marca del borrador")
	}
}

func (uc *UseCase) toResponse(ctx context.Context, d *Draft, cleared []string) (*dto.DraftResponse, error) {
	form, err := json.Marshal(d.Form)
	if err != nil {
		return nil, err
	}
	locked, err := uc.store.Locked(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	chain := []string{string(serviceorder.Step1)}
	terminal := serviceorder.Step1
	if d.Form.Product.Valid() {
		chain = chain[:0]
		for _, s := range serviceorder.Chain(d.Form.Product, d.Form.ProductType) {
			chain = append(chain, string(s))
		}
		terminal = serviceorder.Terminal(d.Form.Product, d.Form.ProductType)
	}
	return &dto.DraftResponse{
		ID:             d.ID,
		Mode:           d.Mode,
		ServiceOrderID: d.SourceOrderID,
		Step:           string(d.Step),
		StepFields:     serviceorder.StepJSONFields(d.Step, d.Form),
		Chain:          chain,
		CanSubmit:      d.Step == terminal && serviceorder.IsTerminal(d.Step),
		CanGoBack:      d.Step != serviceorder.Step1,
		Submitting:     locked,
		Form:           form,
		Cleared:        cleared,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}
