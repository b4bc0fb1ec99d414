package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clicheria-api/internal/application/wizard"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time      { return c.t }
func (c *clock) add(d time.Duration) { c.t = c.t.Add(d) }

func newStore(ttl time.Duration) (*DraftStore, *clock) {
	c := &clock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	s := NewDraftStore(ttl)
	s.now = c.now
	return s, c
}

func TestDraftStore_GuardaYLee(t *testing.T) {
	s, _ := newStore(time.Hour)
	ctx := context.Background()
	form := &serviceorder.Form{Product: entity.ProductClicheCorrugated, Title: "Caixa 40x30", Sets: 2}
	require.NoError(t, s.Save(ctx, &wizard.Draft{ID: "d1", OwnerID: "u1", Step: serviceorder.Step1, Form: form}))

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, entity.ProductClicheCorrugated, got.Form.Product)
	assert.Equal(t, 2, got.Form.Sets)

	// la copia devuelta no comparte estado con el almacén
	got.Form.Title = "otro"
	again, _ := s.Get(ctx, "d1")
	assert.Equal(t, "Caixa 40x30", again.Form.Title)
}

func TestDraftStore_Expira(t *testing.T) {
	s, c := newStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &wizard.Draft{ID: "d1", Form: &serviceorder.Form{}}))

	c.add(59 * time.Second)
	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	c.add(time.Second)
	got, err = s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftStore_GuardarRenuevaTTL(t *testing.T) {
	s, c := newStore(time.Minute)
	ctx := context.Background()
	d := &wizard.Draft{ID: "d1", Form: &serviceorder.Form{}}
	require.NoError(t, s.Save(ctx, d))
	c.add(50 * time.Second)
	require.NoError(t, s.Save(ctx, d))
	c.add(50 * time.Second)

	got, _ := s.Get(ctx, "d1")
	assert.NotNil(t, got)
}

func TestDraftStore_MarcaDeEnvio(t *testing.T) {
	s, c := newStore(time.Hour)
	ctx := context.Background()

	ok, err := s.TryLock(ctx, "d1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.TryLock(ctx, "d1", time.Minute)
	assert.False(t, ok)
	locked, _ := s.Locked(ctx, "d1")
	assert.True(t, locked)

	require.NoError(t, s.Unlock(ctx, "d1"))
	locked, _ = s.Locked(ctx, "d1")
	assert.False(t, locked)

	// una marca olvidada expira sola
	ok, _ = s.TryLock(ctx, "d2", time.Minute)
	require.True(t, ok)
	c.add(time.Minute)
	ok, _ = s.TryLock(ctx, "d2", time.Minute)
	assert.True(t, ok)
}

func TestDraftStore_TryLockConcurrente(t *testing.T) {
	s := NewDraftStore(time.Hour)
	ctx := context.Background()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.TryLock(ctx, "d1", time.Minute); ok {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won)
}

func TestDraftStore_EliminaYBarre(t *testing.T) {
	s, c := newStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &wizard.Draft{ID: "d1", Form: &serviceorder.Form{}}))
	require.NoError(t, s.Save(ctx, &wizard.Draft{ID: "d2", Form: &serviceorder.Form{}}))
	_, _ = s.TryLock(ctx, "d1", time.Hour)

	require.NoError(t, s.Delete(ctx, "d1"))
	got, _ := s.Get(ctx, "d1")
	assert.Nil(t, got)
	locked, _ := s.Locked(ctx, "d1")
	assert.False(t, locked)

	c.add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
}
