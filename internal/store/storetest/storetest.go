// Package storetest provee la suite de conformidad que todo adapter del
// store debe pasar. Los adapters con backend externo (redis, postgres) la
// corren solo en entornos de integración.
package storetest

import (
	"context"
	"testing"

	"github.com/dropDatabas3/littlejohn/internal/store"
)

// Run ejecuta la suite contra un store vacío.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.Get(ctx, "nope"); err != store.ErrNotFound {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("put get delete", func(t *testing.T) {
		rec := store.Record{ID: "user-1", Data: []byte(`{"a":1}`)}
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "user-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.ID != "user-1" || string(got.Data) != `{"a":1}` {
			t.Fatalf("got %+v", got)
		}
		if err := s.Delete(ctx, "user-1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, "user-1"); err != store.ErrNotFound {
			t.Fatalf("after delete err = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete missing is not an error", func(t *testing.T) {
		if err := s.Delete(ctx, "ghost"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		if err := s.Put(ctx, store.Record{ID: "k", Data: []byte("v1")}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Put(ctx, store.Record{ID: "k", Data: []byte("v2")}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got.Data) != "v2" {
			t.Fatalf("data = %q, want v2", got.Data)
		}
		_ = s.Delete(ctx, "k")
	})

	t.Run("scan by prefix", func(t *testing.T) {
		seed := []store.Record{
			{ID: "identity:u1#google", Data: []byte("a")},
			{ID: "identity:u1#apple", Data: []byte("b")},
			{ID: "identity:u2#google", Data: []byte("c")},
			{ID: "user-u1", Data: []byte("d")},
		}
		for _, rec := range seed {
			if err := s.Put(ctx, rec); err != nil {
				t.Fatalf("Put %s: %v", rec.ID, err)
			}
		}
		defer func() {
			for _, rec := range seed {
				_ = s.Delete(ctx, rec.ID)
			}
		}()

		recs, cont, err := s.Scan(ctx, "identity:u1#")
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if cont != "" {
			t.Fatalf("continuation = %q, want empty", cont)
		}
		if len(recs) != 2 {
			t.Fatalf("got %d records, want 2", len(recs))
		}
		for _, rec := range recs {
			if rec.ID != "identity:u1#google" && rec.ID != "identity:u1#apple" {
				t.Fatalf("unexpected record %s", rec.ID)
			}
		}
	})

	t.Run("query by secondary", func(t *testing.T) {
		rec := store.Record{
			ID:        "identity:u1#google",
			Secondary: "google#sub-123",
			Data:      []byte("a"),
		}
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
		defer s.Delete(ctx, rec.ID)

		recs, err := s.QueryBySecondary(ctx, "google#sub-123")
		if err != nil {
			t.Fatalf("QueryBySecondary: %v", err)
		}
		if len(recs) != 1 || recs[0].ID != rec.ID {
			t.Fatalf("got %+v", recs)
		}

		recs, err = s.QueryBySecondary(ctx, "google#other")
		if err != nil {
			t.Fatalf("QueryBySecondary: %v", err)
		}
		if len(recs) != 0 {
			t.Fatalf("got %+v, want empty", recs)
		}
	})

	t.Run("secondary updates on replace", func(t *testing.T) {
		id := "identity:u9#google"
		if err := s.Put(ctx, store.Record{ID: id, Secondary: "google#old", Data: []byte("a")}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Put(ctx, store.Record{ID: id, Secondary: "google#new", Data: []byte("b")}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		defer s.Delete(ctx, id)

		old, err := s.QueryBySecondary(ctx, "google#old")
		if err != nil {
			t.Fatalf("QueryBySecondary: %v", err)
		}
		if len(old) != 0 {
			t.Fatalf("stale secondary still resolves: %+v", old)
		}
		cur, err := s.QueryBySecondary(ctx, "google#new")
		if err != nil {
			t.Fatalf("QueryBySecondary: %v", err)
		}
		if len(cur) != 1 {
			t.Fatalf("got %+v, want one record", cur)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})
}
