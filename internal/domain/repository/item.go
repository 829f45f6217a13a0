// Package repository implementa los repositorios de dominio sobre el store
// clave-valor. Cada entidad embebe StoredItem y se serializa como JSON.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/store"
)

// StoredItem son los campos comunes de toda entidad persistida. Los
// timestamps van en milisegundos Unix.
type StoredItem struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func (s *StoredItem) item() *StoredItem { return s }

// entity lo satisface cualquier struct que embeba StoredItem.
type entity interface {
	item() *StoredItem
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// itemStore es el acceso genérico al store para una entidad concreta.
// Centraliza serialización, timestamps y el mapeo de ErrNotFound.
type itemStore[T any, PT interface {
	*T
	entity
}] struct {
	store store.Store
}

// put persiste la entidad. Estampa CreatedAt la primera vez y UpdatedAt
// siempre; el id tiene que venir seteado por el repositorio.
func (s itemStore[T, PT]) put(ctx context.Context, e PT, secondary string) error {
	it := e.item()
	if it.ID == "" {
		return fmt.Errorf("%w: id must be set before put", ErrInvalidInput)
	}
	now := nowMillis()
	if it.CreatedAt == 0 {
		it.CreatedAt = now
	}
	it.UpdatedAt = now

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", it.ID, err)
	}
	return s.store.Put(ctx, store.Record{ID: it.ID, Secondary: secondary, Data: data})
}

func (s itemStore[T, PT]) get(ctx context.Context, id string) (PT, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.decode(*rec)
}

func (s itemStore[T, PT]) delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// scan retorna todas las entidades bajo un prefijo de id. Si el store
// truncara el resultado fallamos fuerte: ninguna operación de este dominio
// tolera resultados parciales silenciosos.
func (s itemStore[T, PT]) scan(ctx context.Context, prefix string) ([]PT, error) {
	recs, continuation, err := s.store.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if continuation != "" {
		return nil, fmt.Errorf("repository: scan of %q returned a truncated result", prefix)
	}
	out := make([]PT, 0, len(recs))
	for _, rec := range recs {
		e, err := s.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s itemStore[T, PT]) bySecondary(ctx context.Context, secondary string) ([]PT, error) {
	recs, err := s.store.QueryBySecondary(ctx, secondary)
	if err != nil {
		return nil, err
	}
	out := make([]PT, 0, len(recs))
	for _, rec := range recs {
		e, err := s.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s itemStore[T, PT]) decode(rec store.Record) (PT, error) {
	e := PT(new(T))
	if err := json.Unmarshal(rec.Data, e); err != nil {
		return nil, fmt.Errorf("repository: decode %s: %w", rec.ID, err)
	}
	return e, nil
}
