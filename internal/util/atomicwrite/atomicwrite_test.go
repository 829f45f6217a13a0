package atomicwrite

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "data.json")

	if err := WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("content = %q", got)
	}

	// Sobrescribir es atómico: el contenido final es el nuevo completo.
	if err := WriteFile(path, []byte("v2-longer"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "v2-longer" {
		t.Fatalf("content = %q", got)
	}

	// No quedan temporales.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leftover files: %v", entries)
	}
}
