package fs

import (
	"context"
	"testing"

	"github.com/dropDatabas3/littlejohn/internal/store"
	"github.com/dropDatabas3/littlejohn/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	storetest.Run(t, s)
}

func TestNewRequiresDir(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestRegistered(t *testing.T) {
	s, err := store.Open(context.Background(), "fs", t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Put(ctx, store.Record{ID: "identity:u1#google", Data: []byte("x")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	a.Close()

	b, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := b.Get(ctx, "identity:u1#google")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Data) != "x" {
		t.Fatalf("data = %q", got.Data)
	}
}
