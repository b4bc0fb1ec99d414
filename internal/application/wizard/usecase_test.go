package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
)

type fakeStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
	locks  map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{drafts: map[string]Draft{}, locks: map[string]bool{}}
}

func (s *fakeStore) Save(_ context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *d
	c.Form = d.Form.Clone()
	s.drafts[d.ID] = c
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, nil
	}
	d.Form = d.Form.Clone()
	return &d, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

func (s *fakeStore) TryLock(_ context.Context, id string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[id] {
		return false, nil
	}
	s.locks[id] = true
	return true, nil
}

func (s *fakeStore) Unlock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
	return nil
}

func (s *fakeStore) Locked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locks[id], nil
}

// hookStore ejecuta beforeLock antes de cada TryLock; n cuenta las llamadas.
type hookStore struct {
	*fakeStore
	mu         sync.Mutex
	calls      int
	beforeLock func(n int)
}

func (s *hookStore) TryLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	s.calls++
	n, hook := s.calls, s.beforeLock
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return s.fakeStore.TryLock(ctx, id, ttl)
}

func (s *hookStore) onLock(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = 0
	s.beforeLock = fn
}

type fakeOrders struct {
	existing  map[string]*entity.ServiceOrder
	created   []serviceorder.Payload
	updated   map[string]serviceorder.Payload
	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{existing: map[string]*entity.ServiceOrder{}, updated: map[string]serviceorder.Payload{}}
}

func (f *fakeOrders) GetEntity(_ context.Context, id string) (*entity.ServiceOrder, error) {
	o, ok := f.existing[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) Create(_ context.Context, _ string, p serviceorder.Payload, _ order.Uploads) (*dto.ServiceOrderResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, p)
	return &dto.ServiceOrderResponse{ID: "so-new", Number: int64(len(f.created))}, nil
}

func (f *fakeOrders) Update(_ context.Context, id string, p serviceorder.Payload, _ order.Uploads) (*dto.ServiceOrderResponse, error) {
	f.updated[id] = p
	return &dto.ServiceOrderResponse{ID: id}, nil
}

const user = "u-1"

func newUseCase() (*UseCase, *fakeStore, *fakeOrders) {
	store := newFakeStore()
	orders := newFakeOrders()
	return NewUseCase(store, orders, serviceorder.NewValidator(), logger.Nop()), store, orders
}

func newHookedUseCase() (*UseCase, *hookStore, *fakeOrders) {
	store := &hookStore{fakeStore: newFakeStore()}
	orders := newFakeOrders()
	return NewUseCase(store, orders, serviceorder.NewValidator(), logger.Nop()), store, orders
}

func patchJSON(t *testing.T, m map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

var (
	step1Cliche = map[string]any{
		"product":     map[string]string{"value": "CLICHE_CORRUGATED", "label": "Clichê Corrugado"},
		"productType": "NEW",
		"customer":    map[string]string{"value": "c-1", "label": "Embalagens Sul"},
		"operator":    "op-1",
		"title":       "Caixa pizza",
		"entryDate":   "2026-10-01",
	}
	step2Cliche = map[string]any{
		"printers":       []string{"P-1", "P-2"},
		"plateThickness": "1.70",
		"cylinder":       "Z-120",
		"distortion":     "97,5",
	}
	step3Cliche = map[string]any{"clicheWidth": "30,5", "clicheHeight": "20", "sets": 2}
	step4Cliche = map[string]any{
		"profile":       "P1",
		"colorsPattern": "CMYK",
		"purchaseOrder": "OC-1, OC-2",
		"totalPrice":    "2.450,90",
	}
)

// walk aplica cada parche y avanza, devolviendo el último estado.
func walk(t *testing.T, uc *UseCase, id string, patches ...map[string]any) *dto.DraftResponse {
	t.Helper()
	ctx := context.Background()
	for i, p := range patches {
		_, err := uc.Patch(ctx, user, id, patchJSON(t, p))
		require.NoError(t, err)
		if i < len(patches)-1 {
			_, err = uc.Next(ctx, user, id)
			require.NoError(t, err)
		}
	}
	resp, err := uc.Get(ctx, user, id)
	require.NoError(t, err)
	return resp
}

func TestStart_Crear(t *testing.T) {
	uc, _, _ := newUseCase()
	resp, err := uc.Start(context.Background(), user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)

	assert.Equal(t, "Step1", resp.Step)
	assert.False(t, resp.CanGoBack)
	assert.False(t, resp.CanSubmit)
	assert.Equal(t, []string{"Step1"}, resp.Chain)
	assert.Contains(t, resp.StepFields, "product")
}

func TestSubmit_FlujoCompletoClicheCorrugado(t *testing.T) {
	uc, store, orders := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)

	resp := walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche, step4Cliche)
	assert.Equal(t, "Step4", resp.Step)
	assert.True(t, resp.CanSubmit)
	assert.Equal(t, []string{"Step1", "Step2ClicheCorrugated", "Step3ClicheCorrugated", "Step4"}, resp.Chain)

	out, err := uc.Submit(ctx, user, start.ID, order.Uploads{})
	require.NoError(t, err)
	assert.Equal(t, "so-new", out.ID)

	require.Len(t, orders.created, 1)
	p := orders.created[0]
	assert.Equal(t, entity.ProductClicheCorrugated, p.Product)
	assert.Equal(t, "c-1", p.Customer)
	assert.Equal(t, []string{"OC-1", "OC-2"}, p.PurchaseOrder)
	require.NotNil(t, p.PrinterDetails)
	assert.Nil(t, p.DieCutBlockDetails)
	assert.Equal(t, "2450.9", p.TotalPrice.Decimal.String())

	_, ok := store.drafts[start.ID]
	assert.False(t, ok, "el borrador se descarta tras el envío")
	locked, _ := store.Locked(ctx, start.ID)
	assert.False(t, locked)
}

func TestNext_ValidacionParcial(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)

	_, err = uc.Patch(ctx, user, start.ID, patchJSON(t, step1Cliche))
	require.NoError(t, err)
	_, err = uc.Next(ctx, user, start.ID)
	require.NoError(t, err)

	_, err = uc.Next(ctx, user, start.ID)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "printers")
	assert.Contains(t, verr.Fields, "distortion")
	assert.NotContains(t, verr.Fields, "clicheWidth")
	assert.NotContains(t, verr.Fields, "knifeType")

	resp, err := uc.Get(ctx, user, start.ID)
	require.NoError(t, err)
	assert.Equal(t, "Step2ClicheCorrugated", resp.Step, "la validación fallida no avanza")
}

func TestSubmit_FueraDelPasoTerminal(t *testing.T) {
	uc, _, orders := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche)

	_, err = uc.Submit(ctx, user, start.ID, order.Uploads{})
	assert.ErrorIs(t, err, domain.ErrNotTerminal)
	assert.Empty(t, orders.created)
}

func TestSubmit_EnvioEnCurso(t *testing.T) {
	uc, store, orders := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche, step4Cliche)

	ok, _ := store.TryLock(ctx, start.ID, time.Minute)
	require.True(t, ok)

	_, err = uc.Submit(ctx, user, start.ID, order.Uploads{})
	assert.ErrorIs(t, err, domain.ErrSubmitInProgress)
	_, err = uc.Patch(ctx, user, start.ID, patchJSON(t, map[string]any{"title": "x"}))
	assert.ErrorIs(t, err, domain.ErrSubmitInProgress)
	assert.Empty(t, orders.created)
}

func TestSubmit_DosEnviosIntercaladosCreanUnaOrden(t *testing.T) {
	uc, store, orders := newHookedUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche, step4Cliche)

	// El segundo envío leyó el borrador y se detiene justo antes de marcarlo.
	reached := make(chan struct{})
	release := make(chan struct{})
	store.onLock(func(n int) {
		if n == 1 {
			close(reached)
			<-release
		}
	})
	late := make(chan error, 1)
	go func() {
		_, err := uc.Submit(ctx, user, start.ID, order.Uploads{})
		late <- err
	}()
	<-reached

	out, err := uc.Submit(ctx, user, start.ID, order.Uploads{})
	require.NoError(t, err)
	assert.Equal(t, "so-new", out.ID)
	close(release)

	assert.ErrorIs(t, <-late, domain.ErrNotFound)
	assert.Len(t, orders.created, 1, "el borrador solo genera una orden")
	locked, _ := store.Locked(ctx, start.ID)
	assert.False(t, locked)
}

func TestPatch_BorradorEnviadoAntesDeGuardarNoReaparece(t *testing.T) {
	uc, store, _ := newHookedUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche)

	// Un envío termina entre la lectura del borrador y su guardado.
	store.onLock(func(int) { _ = store.Delete(ctx, start.ID) })

	_, err = uc.Patch(ctx, user, start.ID, patchJSON(t, map[string]any{"title": "otro"}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	d, err := store.Get(ctx, start.ID)
	require.NoError(t, err)
	assert.Nil(t, d, "el borrador descartado no se recrea")
	locked, _ := store.Locked(ctx, start.ID)
	assert.False(t, locked)
}

func TestSubmit_FalloConservaBorrador(t *testing.T) {
	uc, store, orders := newUseCase()
	ctx := context.Background()
	orders.createErr = errors.New("api caída")
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche, step4Cliche)

	_, err = uc.Submit(ctx, user, start.ID, order.Uploads{})
	require.Error(t, err)

	d, ok := store.drafts[start.ID]
	require.True(t, ok)
	assert.Equal(t, serviceorder.Step4, d.Step)
	assert.Equal(t, "Caixa pizza", d.Form.Title)
	locked, _ := store.Locked(ctx, start.ID)
	assert.False(t, locked, "la marca se libera para reintentar")

	orders.createErr = nil
	_, err = uc.Submit(ctx, user, start.ID, order.Uploads{})
	require.NoError(t, err)
}

func TestSubmit_Step4SinGuardaParaTest(t *testing.T) {
	uc, _, orders := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)

	s1 := map[string]any{}
	for k, v := range step1Cliche {
		s1[k] = v
	}
	s1["productType"] = "TEST"
	walk(t, uc, start.ID, s1, step2Cliche, step3Cliche, map[string]any{})

	_, err = uc.Submit(ctx, user, start.ID, order.Uploads{})
	require.NoError(t, err, "TEST no exige perfil ni patrón de colores")
	require.Len(t, orders.created, 1)
}

func TestPatch_CambioDeProductoEnStep2LimpiaRama(t *testing.T) {
	uc, store, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche)

	resp, err := uc.Patch(ctx, user, start.ID, patchJSON(t, map[string]any{"product": "DIECUTBLOCK"}))
	require.NoError(t, err)

	assert.Equal(t, "Step2DieCutBlock", resp.Step)
	assert.Contains(t, resp.Cleared, "plateThickness")
	assert.Contains(t, resp.Cleared, "printers")
	d := store.drafts[start.ID]
	assert.Empty(t, d.Form.Distortion)
	assert.Equal(t, "Caixa pizza", d.Form.Title, "los campos del paso 1 se conservan")
}

func TestPatch_CambioDeTipoTrasStep2Bloqueado(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche)

	_, err = uc.Patch(ctx, user, start.ID, patchJSON(t, map[string]any{"productType": "REPAIR"}))
	assert.ErrorIs(t, err, domain.ErrStepLocked)
}

func TestPatch_CambioAConsertoEnStep2LimpiaStep3(t *testing.T) {
	uc, store, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche, step4Cliche)
	for i := 0; i < 2; i++ {
		_, err = uc.Back(ctx, user, start.ID)
		require.NoError(t, err)
	}

	resp, err := uc.Patch(ctx, user, start.ID, patchJSON(t, map[string]any{"productType": "REPAIR"}))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"clicheWidth", "clicheHeight", "sets", "profile", "colorsPattern"}, resp.Cleared)
	assert.Equal(t, "1.70", string(store.drafts[start.ID].Form.PlateThickness))

	resp, err = uc.Next(ctx, user, start.ID)
	require.NoError(t, err)
	assert.Equal(t, "Step3ClicheCorrugatedRepair", resp.Step)
	assert.True(t, resp.CanSubmit)
}

func TestBack_RetrocedeSinLimpiar(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)

	_, err = uc.Back(ctx, user, start.ID)
	assert.ErrorIs(t, err, domain.ErrNoBackStep)

	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche, step4Cliche)
	resp, err := uc.Back(ctx, user, start.ID)
	require.NoError(t, err)
	assert.Equal(t, "Step3ClicheCorrugated", resp.Step)

	var form map[string]any
	require.NoError(t, json.Unmarshal(resp.Form, &form))
	assert.Equal(t, "CMYK", form["colorsPattern"], "volver no limpia campos")
}

func TestNext_EnPasoTerminal(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)
	walk(t, uc, start.ID, step1Cliche, step2Cliche, step3Cliche, step4Cliche)

	_, err = uc.Next(ctx, user, start.ID)
	assert.ErrorIs(t, err, domain.ErrNoForwardStep)
}

func existingDieCut() *entity.ServiceOrder {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	billed := now.AddDate(0, 0, 10)
	return &entity.ServiceOrder{
		ID: "so-1", Number: 7, Status: entity.StatusInvoiced,
		Product: entity.ProductDieCutBlock, ProductType: entity.ProductTypeNew,
		CustomerID: "c-1", OperatorID: "op-1", Title: "Forma caixa", EntryDate: now,
		NfNumber: "NF-77", BillingDate: &billed, PurchaseOrders: []string{"OC-9"},
		DieCutBlockDetails: &entity.DieCutBlockDetails{
			Printers: []string{"P-1"}, KnifeType: "CORTE", Wave: "BC",
			Measures: &entity.DieCutBlockMeasures{},
		},
	}
}

func TestStart_EdicionBloqueaProducto(t *testing.T) {
	uc, _, orders := newUseCase()
	ctx := context.Background()
	orders.existing["so-1"] = existingDieCut()

	resp, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeEdit, ServiceOrderID: "so-1"})
	require.NoError(t, err)
	assert.Equal(t, "so-1", resp.ServiceOrderID)
	assert.Equal(t, []string{"Step1", "Step2DieCutBlock", "Step3DieCutBlock"}, resp.Chain)

	_, err = uc.Patch(ctx, user, resp.ID, patchJSON(t, map[string]any{"product": "CLICHE_CORRUGATED"}))
	assert.ErrorIs(t, err, domain.ErrProductLocked)

	_, err = uc.Patch(ctx, user, resp.ID, patchJSON(t, map[string]any{"productType": "REPAIR"}))
	assert.NoError(t, err, "el tipo sí puede cambiar en edición")
}

func TestStart_ReutilizarLimpiaFacturacion(t *testing.T) {
	uc, store, orders := newUseCase()
	ctx := context.Background()
	orders.existing["so-1"] = existingDieCut()

	resp, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeReuse, ServiceOrderID: "so-1"})
	require.NoError(t, err)
	assert.Empty(t, resp.ServiceOrderID)

	d := store.drafts[resp.ID]
	assert.Empty(t, d.Form.NfNumber)
	assert.Empty(t, d.Form.BillingDate)
	assert.Empty(t, d.Form.PurchaseOrder)
	assert.Equal(t, "Forma caixa", d.Form.Title)
	assert.Equal(t, entity.Option("CORTE"), d.Form.KnifeType)
}

func TestStart_EdicionDeOrdenInexistente(t *testing.T) {
	uc, _, _ := newUseCase()
	_, err := uc.Start(context.Background(), user, dto.StartWizardRequest{Mode: dto.WizardModeEdit, ServiceOrderID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_BorradorAjenoOInexistente(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)

	_, err = uc.Get(ctx, "otro", start.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Get(ctx, user, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiscard_EliminaBorrador(t *testing.T) {
	uc, store, _ := newUseCase()
	ctx := context.Background()
	start, err := uc.Start(ctx, user, dto.StartWizardRequest{Mode: dto.WizardModeCreate})
	require.NoError(t, err)

	require.NoError(t, uc.Discard(ctx, user, start.ID))
	assert.Empty(t, store.drafts)
}

func TestProductOptions_Listas(t *testing.T) {
	opts := ProductOptions()
	require.Len(t, opts.Products, 2)
	assert.Equal(t, "Clichê Corrugado", opts.Products[0].Label)
	assert.Len(t, opts.ProductTypes["CLICHE_CORRUGATED"], 6)
	assert.Len(t, opts.ProductTypes["DIECUTBLOCK"], 5)
}
