// Package order contiene los casos de uso de órdenes de servicio: alta, edición,
// reutilización, consulta, cambio de estado y documentos (PDF, planilla).
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
	"github.com/jhoicas/Clicheria-api/pkg/metrics"
)

const storagePrefix = "service-orders"

// UseCase casos de uso de órdenes de servicio.
type UseCase struct {
	repo      repository.ServiceOrderRepository
	customers repository.CustomerRepository
	users     repository.UserRepository
	storage   FileStorage
	tickets   TicketRenderer
	reports   ReportWriter
	notifier  Notifier
	validator *serviceorder.Validator
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	repo repository.ServiceOrderRepository,
	customers repository.CustomerRepository,
	users repository.UserRepository,
	storage FileStorage,
	tickets TicketRenderer,
	reports ReportWriter,
	notifier Notifier,
	validator *serviceorder.Validator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		repo:      repo,
		customers: customers,
		users:     users,
		storage:   storage,
		tickets:   tickets,
		reports:   reports,
		notifier:  notifier,
		validator: validator,
		log:       log.Component("order"),
		now:       time.Now,
	}
}

// CreateFromForm valida y formatea un formulario plano (campo `data` del
// multipart) y crea la orden. Es la misma puerta que usa el asistente.
func (uc *UseCase) CreateFromForm(ctx context.Context, userID string, data []byte, files Uploads) (*dto.ServiceOrderResponse, error) {
	payload, err := uc.payloadFromForm(data)
	if err != nil {
		return nil, err
	}
	return uc.Create(ctx, userID, payload, files)
}

// UpdateFromForm igual que CreateFromForm para la edición.
func (uc *UseCase) UpdateFromForm(ctx context.Context, id string, data []byte, files Uploads) (*dto.ServiceOrderResponse, error) {
	payload, err := uc.payloadFromForm(data)
	if err != nil {
		return nil, err
	}
	return uc.Update(ctx, id, payload, files)
}

func (uc *UseCase) payloadFromForm(data []byte) (serviceorder.Payload, error) {
	if len(data) == 0 {
		return serviceorder.Payload{}, fmt.Errorf("campo data vacío: %w", domain.ErrInvalidInput)
	}
	form := &serviceorder.Form{}
	if err := form.Apply(data); err != nil {
		return serviceorder.Payload{}, err
	}
	if err := uc.validator.ValidateAll(form); err != nil {
		return serviceorder.Payload{}, err
	}
	return serviceorder.Format(form)
}

// Create persiste una orden nueva en estado OPEN y avisa al operador.
func (uc *UseCase) Create(ctx context.Context, userID string, p serviceorder.Payload, files Uploads) (*dto.ServiceOrderResponse, error) {
	if err := uc.checkReferences(ctx, p); err != nil {
		return nil, err
	}
	now := uc.now()
	o := &entity.ServiceOrder{
		ID:        uuid.New().String(),
		Status:    entity.StatusOpen,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.ApplyTo(o)
	if err := uc.storeFiles(o, files); err != nil {
		uc.discardFiles(o.Files)
		return nil, err
	}
	if err := uc.repo.Create(ctx, o); err != nil {
		uc.discardFiles(o.Files)
		return nil, fmt.Errorf("crear orden: %w", err)
	}
	metrics.RecordOrderCreated(string(o.Product))
	uc.log.Info().Str("order_id", o.ID).Int64("number", o.Number).Str("product", string(o.Product)).Msg("orden creada")
	uc.notifyOperator(ctx, o)
	return uc.toResponse(o), nil
}

// Update reemplaza los datos de una orden existente. El producto no puede
// cambiar, y en una orden ya facturada tampoco el valor, la NF ni su fecha.
func (uc *UseCase) Update(ctx context.Context, id string, p serviceorder.Payload, files Uploads) (*dto.ServiceOrderResponse, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Product != p.Product {
		return nil, domain.ErrProductLocked
	}
	if o.Status == entity.StatusCancelled {
		return nil, fmt.Errorf("orden cancelada: %w", domain.ErrConflict)
	}
	if o.InvoiceID != "" && billingChanged(o, p) {
		return nil, fmt.Errorf("orden facturada, valor y datos fiscales fijos: %w", domain.ErrConflict)
	}
	if err := uc.checkReferences(ctx, p); err != nil {
		return nil, err
	}
	previous := o.Files
	p.ApplyTo(o)
	if err := uc.storeFiles(o, files); err != nil {
		uc.discardFiles(replaced(previous, o.Files))
		return nil, err
	}
	o.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, o); err != nil {
		uc.discardFiles(replaced(previous, o.Files))
		return nil, fmt.Errorf("actualizar orden: %w", err)
	}
	uc.discardFiles(replacedOld(previous, o.Files))
	uc.log.Info().Str("order_id", o.ID).Msg("orden actualizada")
	return uc.toResponse(o), nil
}

// Reuse crea una orden nueva a partir de una existente: nuevo id y número,
// estado OPEN, fecha de entrada hoy y sin vínculo de facturación.
func (uc *UseCase) Reuse(ctx context.Context, userID, id string) (*dto.ServiceOrderResponse, error) {
	src, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	o := *src
	o.ID = uuid.New().String()
	o.Number = 0
	o.Status = entity.StatusOpen
	o.EntryDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	o.DispatchDate = nil
	o.NfNumber = ""
	o.BillingDate = nil
	o.InvoiceID = ""
	o.PurchaseOrders = []string{}
	// Los adjuntos pertenecen a la orden de origen; Update los borraría al reemplazarlos.
	o.Files = entity.Attachments{}
	o.CreatedBy = userID
	o.CreatedAt = now
	o.UpdatedAt = now
	if err := uc.repo.Create(ctx, &o); err != nil {
		return nil, fmt.Errorf("reutilizar orden: %w", err)
	}
	metrics.RecordOrderCreated(string(o.Product))
	uc.log.Info().Str("order_id", o.ID).Str("source_id", src.ID).Msg("orden reutilizada")
	uc.notifyOperator(ctx, &o)
	return uc.toResponse(&o), nil
}

// Get devuelve una orden por id.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ServiceOrderResponse, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(o), nil
}

// GetEntity devuelve la entidad (prellenado del asistente).
func (uc *UseCase) GetEntity(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	return uc.load(ctx, id)
}

// List lista órdenes con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, q dto.ServiceOrderListQuery) (*dto.ServiceOrderListResponse, error) {
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServiceOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *uc.toResponse(o))
	}
	return &dto.ServiceOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// ChangeStatus avanza el estado de producción según el ciclo de vida.
// INVOICED solo se alcanza vinculando una nota fiscal.
func (uc *UseCase) ChangeStatus(ctx context.Context, id string, in dto.ChangeStatusRequest) (*dto.ServiceOrderResponse, error) {
	next := entity.Status(in.Status)
	if !next.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if next == entity.StatusInvoiced {
		return nil, fmt.Errorf("use la vinculación de nota fiscal: %w", domain.ErrInvalidTransition)
	}
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(next) {
		return nil, fmt.Errorf("%s -> %s: %w", o.Status, next, domain.ErrInvalidTransition)
	}
	now := uc.now()
	if err := uc.repo.UpdateStatus(ctx, id, next, now); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Str("from", string(o.Status)).Str("to", string(next)).Msg("estado actualizado")
	o.Status = next
	o.UpdatedAt = now
	return uc.toResponse(o), nil
}

func (uc *UseCase) load(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// checkReferences verifica que cliente y operador existan.
func (uc *UseCase) checkReferences(ctx context.Context, p serviceorder.Payload) error {
	verr := domain.NewValidationError()
	c, err := uc.customers.GetByID(ctx, p.Customer)
	if err != nil {
		return err
	}
	if c == nil {
		verr.Add("customer", "cliente no encontrado")
	}
	if p.ExternalCustomer != "" {
		ec, err := uc.customers.GetByID(ctx, p.ExternalCustomer)
		if err != nil {
			return err
		}
		if ec == nil {
			verr.Add("externalCustomer", "cliente no encontrado")
		}
	}
	op, err := uc.users.GetByID(ctx, p.Operator)
	if err != nil {
		return err
	}
	if op == nil || op.Role != entity.RoleOperador {
		verr.Add("operator", "operador no encontrado")
	}
	return verr.OrNil()
}

func (uc *UseCase) storeFiles(o *entity.ServiceOrder, files Uploads) error {
	slots := []struct {
		up  *Upload
		dst *string
	}{
		{files.File, &o.Files.File},
		{files.PrintSheet, &o.Files.PrintSheet},
		{files.DieCutBlockSheet, &o.Files.DieCutBlockSheet},
	}
	for _, s := range slots {
		if s.up == nil {
			continue
		}
		path, err := uc.storage.Save(s.up.Content, s.up.Filename, storagePrefix)
		if err != nil {
			return fmt.Errorf("guardar adjunto %s: %w", s.up.Filename, err)
		}
		*s.dst = path
	}
	return nil
}

func (uc *UseCase) discardFiles(a entity.Attachments) {
	for _, p := range []string{a.File, a.PrintSheet, a.DieCutBlockSheet} {
		if p == "" {
			continue
		}
		if err := uc.storage.Delete(p); err != nil {
			uc.log.Warn().Err(err).Str("path", p).Msg("no se pudo borrar adjunto")
		}
	}
}

// replaced rutas nuevas (las que difieren de las anteriores).
func replaced(prev, cur entity.Attachments) entity.Attachments {
	var out entity.Attachments
	if cur.File != prev.File {
		out.File = cur.File
	}
	if cur.PrintSheet != prev.PrintSheet {
		out.PrintSheet = cur.PrintSheet
	}
	if cur.DieCutBlockSheet != prev.DieCutBlockSheet {
		out.DieCutBlockSheet = cur.DieCutBlockSheet
	}
	return out
}

// replacedOld rutas anteriores que quedaron reemplazadas.
// billingChanged indica si el payload altera el valor o los datos fiscales.
func billingChanged(o *entity.ServiceOrder, p serviceorder.Payload) bool {
	if o.TotalPrice.Valid != p.TotalPrice.Valid {
		return true
	}
	if o.TotalPrice.Valid && !o.TotalPrice.Decimal.Equal(p.TotalPrice.Decimal) {
		return true
	}
	if o.NfNumber != p.NfNumber {
		return true
	}
	return !sameDate(o.BillingDate, p.BillingDate.Ptr())
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Format(serviceorder.DateLayout) == b.Format(serviceorder.DateLayout)
}

func replacedOld(prev, cur entity.Attachments) entity.Attachments {
	return replaced(cur, prev)
}

func (uc *UseCase) notifyOperator(ctx context.Context, o *entity.ServiceOrder) {
	if uc.notifier == nil || o.OperatorID == "" {
		return
	}
	title := fmt.Sprintf("Nova OS #%d", o.Number)
	msg := fmt.Sprintf("%s (%s) - %s", o.Product.Label(), o.ProductType.Label(), o.Title)
	if err := uc.notifier.Notify(ctx, o.OperatorID, entity.NotificationOrderCreated, title, msg, o.ID); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo notificar al operador")
	}
}

func toFilter(q dto.ServiceOrderListQuery) (repository.ServiceOrderFilter, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	f := repository.ServiceOrderFilter{
		CustomerID:  q.CustomerID,
		OperatorID:  q.OperatorID,
		Product:     entity.Product(q.Product),
		ProductType: entity.ProductType(q.ProductType),
		Status:      entity.Status(q.Status),
		Search:      strings.TrimSpace(q.Search),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	verr := domain.NewValidationError()
	if q.From != "" {
		d, err := serviceorder.ParseDate(q.From)
		if err != nil {
			verr.Add("from", "fecha inválida (AAAA-MM-DD)")
		} else {
			f.From = d.Ptr()
		}
	}
	if q.To != "" {
		d, err := serviceorder.ParseDate(q.To)
		if err != nil {
			verr.Add("to", "fecha inválida (AAAA-MM-DD)")
		} else {
			f.To = d.Ptr()
		}
	}
	return f, verr.OrNil()
}
