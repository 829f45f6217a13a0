package repository

import "errors"

var (
	// ErrNotFound indica que la entidad pedida no existe.
	ErrNotFound = errors.New("repository: not found")

	// ErrIdentityTaken indica que la identidad del proveedor ya está
	// vinculada a otro usuario.
	ErrIdentityTaken = errors.New("repository: identity already linked to another user")

	// ErrInvalidInput indica argumentos vacíos o inconsistentes.
	ErrInvalidInput = errors.New("repository: invalid input")
)
