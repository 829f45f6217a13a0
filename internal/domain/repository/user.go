package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/littlejohn/internal/store"
)

const userIDPrefix = "user-"

// User es la cuenta local. Deliberadamente no guarda email ni perfil: esos
// datos viven en las identidades vinculadas, que son la fuente de verdad
// del proveedor.
type User struct {
	StoredItem
}

// UserRepository maneja el ciclo de vida de las cuentas.
type UserRepository interface {
	// Create crea un usuario nuevo con id generado.
	Create(ctx context.Context) (*User, error)

	// Get retorna el usuario, o ErrNotFound.
	Get(ctx context.Context, id string) (*User, error)

	// List retorna todos los usuarios.
	List(ctx context.Context) ([]*User, error)

	// Delete borra el usuario. Borrar un id inexistente no es error.
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	items itemStore[User, *User]
}

// NewUserRepository crea el repositorio de usuarios sobre el store dado.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{items: itemStore[User, *User]{store: s}}
}

func (r *userRepository) Create(ctx context.Context) (*User, error) {
	u := &User{StoredItem: StoredItem{ID: userIDPrefix + uuid.NewString()}}
	if err := r.items.put(ctx, u, ""); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return r.items.get(ctx, id)
}

func (r *userRepository) List(ctx context.Context) ([]*User, error) {
	return r.items.scan(ctx, userIDPrefix)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return r.items.delete(ctx, id)
}
