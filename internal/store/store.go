// Package store define el contrato de persistencia clave-valor del sistema
// y el registro de adapters. Los repositorios de dominio trabajan contra
// esta interfaz; el driver concreto se elige por configuración.
package store

import (
	"context"
	"errors"
)

// ErrNotFound se retorna cuando el registro pedido no existe.
var ErrNotFound = errors.New("store: record not found")

// Record es la unidad de almacenamiento: un blob JSON opaco con su clave
// primaria y una clave secundaria opcional para lookups inversos.
type Record struct {
	// ID es la clave primaria.
	ID string `json:"id"`
	// Secondary es la clave del índice secundario, o "" si no aplica.
	Secondary string `json:"secondary,omitempty"`
	// Data es el documento serializado por la capa de repositorio.
	Data []byte `json:"data"`
}

// Store es el contrato que implementan los adapters.
type Store interface {
	// Get retorna el registro con el id dado, o ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Put crea o reemplaza el registro.
	Put(ctx context.Context, rec Record) error

	// Delete borra el registro. Borrar un id inexistente no es error.
	Delete(ctx context.Context, id string) error

	// Scan retorna los registros cuyo id empieza con prefix, junto con un
	// token de continuación si el resultado quedó truncado ("" si está
	// completo). Los adapters actuales nunca truncan, pero el contrato lo
	// contempla y los callers deben tratarlo como error explícito antes
	// que ignorarlo.
	Scan(ctx context.Context, prefix string) ([]Record, string, error)

	// QueryBySecondary retorna los registros con la clave secundaria dada.
	QueryBySecondary(ctx context.Context, secondary string) ([]Record, error)

	// Ping verifica que el backend responde.
	Ping(ctx context.Context) error

	// Close libera recursos del adapter.
	Close() error
}
