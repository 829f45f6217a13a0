package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// OpenFunc abre un Store a partir de su DSN.
type OpenFunc func(ctx context.Context, dsn string) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]OpenFunc{}
)

// Register registra un adapter bajo un nombre de driver. Se llama desde el
// init() de cada adapter; registrar dos veces el mismo nombre es un bug.
func Register(name string, open OpenFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("store: driver %q registered twice", name))
	}
	registry[name] = open
}

// Drivers retorna los nombres de drivers registrados, ordenados.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open abre el store del driver dado. El driver tiene que haber sido
// registrado (normalmente vía blank import del paquete del adapter).
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	registryMu.RLock()
	open, ok := registry[driver]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unknown driver %q (registered: %s)",
			driver, strings.Join(Drivers(), ", "))
	}
	return open(ctx, dsn)
}
