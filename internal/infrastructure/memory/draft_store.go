// Package memory implementaciones en proceso para desarrollo local y una sola instancia.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Clicheria-api/internal/application/wizard"
)

var _ wizard.DraftStore = (*DraftStore)(nil)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// DraftStore borradores en memoria con expiración. Guarda copias serializadas
// para que el llamador no comparta punteros con el almacén.
type DraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]entry
	locks  map[string]time.Time
	now    func() time.Time
}

// NewDraftStore construye el almacén con la vida de los borradores.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		ttl:    ttl,
		drafts: make(map[string]entry),
		locks:  make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *DraftStore) Save(_ context.Context, d *wizard.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = entry{data: b, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *DraftStore) Get(_ context.Context, id string) (*wizard.Draft, error) {
	s.mu.Lock()
	e, ok := s.drafts[id]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.drafts, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var d wizard.Draft
	if err := json.Unmarshal(e.data, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (s *DraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	delete(s.locks, id)
	return nil
}

func (s *DraftStore) TryLock(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp, ok := s.locks[id]; ok && s.now().Before(exp) {
		return false, nil
	}
	s.locks[id] = s.now().Add(ttl)
	return true, nil
}

func (s *DraftStore) Unlock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
	return nil
}

func (s *DraftStore) Locked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.locks[id]
	return ok && s.now().Before(exp), nil
}

// Sweep elimina borradores y marcas expirados; devuelve cuántos borradores quitó.
func (s *DraftStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.drafts {
		if !now.Before(e.expiresAt) {
			delete(s.drafts, id)
			n++
		}
	}
	for id, exp := range s.locks {
		if !now.Before(exp) {
			delete(s.locks, id)
		}
	}
	return n
}
