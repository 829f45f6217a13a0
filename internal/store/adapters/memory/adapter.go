// Package memory implementa el store sobre un cache en memoria. Es el
// driver por defecto en desarrollo y el que usan los tests de integración.
package memory

import (
	"context"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/littlejohn/internal/store"
)

func init() {
	store.Register("memory", func(ctx context.Context, dsn string) (store.Store, error) {
		return New(), nil
	})
}

type adapter struct {
	items *gocache.Cache
}

// New crea un store en memoria vacío.
func New() store.Store {
	return &adapter{
		items: gocache.New(gocache.NoExpiration, 0),
	}
}

func (a *adapter) Get(ctx context.Context, id string) (*store.Record, error) {
	v, ok := a.items.Get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	rec := v.(store.Record)
	return &rec, nil
}

func (a *adapter) Put(ctx context.Context, rec store.Record) error {
	// Copia defensiva: el caller puede reusar el slice Data.
	rec.Data = append([]byte(nil), rec.Data...)
	a.items.Set(rec.ID, rec, gocache.NoExpiration)
	return nil
}

func (a *adapter) Delete(ctx context.Context, id string) error {
	a.items.Delete(id)
	return nil
}

func (a *adapter) Scan(ctx context.Context, prefix string) ([]store.Record, string, error) {
	var out []store.Record
	for id, item := range a.items.Items() {
		if strings.HasPrefix(id, prefix) {
			out = append(out, item.Object.(store.Record))
		}
	}
	return out, "", nil
}

func (a *adapter) QueryBySecondary(ctx context.Context, secondary string) ([]store.Record, error) {
	var out []store.Record
	for _, item := range a.items.Items() {
		rec := item.Object.(store.Record)
		if rec.Secondary != "" && rec.Secondary == secondary {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (a *adapter) Ping(ctx context.Context) error { return nil }

func (a *adapter) Close() error { return nil }
