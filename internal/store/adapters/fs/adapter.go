// Package fs implementa el store sobre un directorio local: un archivo JSON
// por registro, con escritura atómica. Pensado para instancias single-node
// sin dependencias externas.
package fs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dropDatabas3/littlejohn/internal/store"
	"github.com/dropDatabas3/littlejohn/internal/util/atomicwrite"
)

func init() {
	store.Register("fs", func(ctx context.Context, dsn string) (store.Store, error) {
		return New(dsn)
	})
}

type adapter struct {
	dir string
}

// New crea un store sobre el directorio dado (el DSN del driver).
func New(dir string) (store.Store, error) {
	if dir == "" {
		return nil, errors.New("fs: directory must be provided as dsn")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fs: mkdir %s: %w", dir, err)
	}
	return &adapter{dir: dir}, nil
}

// fileName codifica el id para que cualquier clave (contiene ':', '#', '/')
// sea un nombre de archivo válido.
func (a *adapter) fileName(id string) string {
	return filepath.Join(a.dir, base64.URLEncoding.EncodeToString([]byte(id))+".json")
}

func decodeFileName(name string) (string, bool) {
	encoded, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return "", false
	}
	id, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(id), true
}

func (a *adapter) Get(ctx context.Context, id string) (*store.Record, error) {
	b, err := os.ReadFile(a.fileName(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("fs: read %s: %w", id, err)
	}
	var rec store.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("fs: decode %s: %w", id, err)
	}
	return &rec, nil
}

func (a *adapter) Put(ctx context.Context, rec store.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("fs: encode %s: %w", rec.ID, err)
	}
	return atomicwrite.WriteFile(a.fileName(rec.ID), b, 0o644)
}

func (a *adapter) Delete(ctx context.Context, id string) error {
	if err := os.Remove(a.fileName(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("fs: delete %s: %w", id, err)
	}
	return nil
}

func (a *adapter) Scan(ctx context.Context, prefix string) ([]store.Record, string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, "", fmt.Errorf("fs: scan: %w", err)
	}
	var out []store.Record
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := decodeFileName(e.Name())
		if !ok || !strings.HasPrefix(id, prefix) {
			continue
		}
		rec, err := a.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, "", err
		}
		out = append(out, *rec)
	}
	return out, "", nil
}

func (a *adapter) QueryBySecondary(ctx context.Context, secondary string) ([]store.Record, error) {
	all, _, err := a.Scan(ctx, "")
	if err != nil {
		return nil, err
	}
	var out []store.Record
	for _, rec := range all {
		if rec.Secondary != "" && rec.Secondary == secondary {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (a *adapter) Ping(ctx context.Context) error {
	_, err := os.Stat(a.dir)
	return err
}

func (a *adapter) Close() error { return nil }
