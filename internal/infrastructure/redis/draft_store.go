package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/jhoicas/Clicheria-api/internal/application/wizard"
)

var _ wizard.DraftStore = (*DraftStore)(nil)

const (
	draftKeyPrefix = "clicheria:draft:"
	lockKeyPrefix  = "clicheria:draft-lock:"
)

// DraftStore borradores del asistente en Redis. Cada Save renueva el TTL,
// así un borrador abandonado expira solo.
type DraftStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewDraftStore construye el almacén con la vida de los borradores.
func NewDraftStore(client *goredis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

// Save serializa el borrador como JSON.
func (s *DraftStore) Save(ctx context.Context, d *wizard.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+d.ID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si el borrador no existe o expiró.
func (s *DraftStore) Get(ctx context.Context, id string) (*wizard.Draft, error) {
	b, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	var d wizard.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// Delete elimina el borrador y su marca de envío.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id, lockKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// TryLock usa SETNX: solo el primer envío obtiene la marca.
func (s *DraftStore) TryLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKeyPrefix+id, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock draft: %w", err)
	}
	return ok, nil
}

// Unlock libera la marca de envío.
func (s *DraftStore) Unlock(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, lockKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("unlock draft: %w", err)
	}
	return nil
}

// Locked indica si hay un envío en curso.
func (s *DraftStore) Locked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, lockKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("check draft lock: %w", err)
	}
	return n > 0, nil
}
