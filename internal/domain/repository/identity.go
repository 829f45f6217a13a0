package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/littlejohn/internal/store"
)

const identityIDPrefix = "identity:"

// Identity vincula un usuario local con una cuenta de un proveedor OAuth.
// La clave primaria es identity:{userID}#{provider}: un usuario tiene a lo
// sumo una identidad por proveedor. La clave secundaria {provider}#{sub}
// resuelve el camino inverso en el callback de login.
type Identity struct {
	StoredItem
	UserID       string `json:"userId"`
	Provider     string `json:"provider"`
	Subject      string `json:"sub"`
	Email        string `json:"email,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	// ExpiresAt es el vencimiento del access token en segundos Unix.
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

// IdentityID arma la clave primaria de una identidad.
func IdentityID(userID, provider string) string {
	return identityIDPrefix + userID + "#" + provider
}

func identitySecondary(provider, subject string) string {
	return provider + "#" + subject
}

// IdentityRepository maneja los vínculos usuario-proveedor.
type IdentityRepository interface {
	// Upsert crea o actualiza la identidad del par (usuario, proveedor).
	// Preserva CreatedAt si ya existía. Falla con ErrIdentityTaken si la
	// cuenta del proveedor ya está vinculada a otro usuario.
	Upsert(ctx context.Context, ident Identity) (*Identity, error)

	// Get retorna la identidad del par (usuario, proveedor), o ErrNotFound.
	Get(ctx context.Context, userID, provider string) (*Identity, error)

	// GetByID retorna la identidad con la clave primaria dada.
	GetByID(ctx context.Context, id string) (*Identity, error)

	// GetByProviderSubject resuelve la identidad desde el claim sub del
	// proveedor, o ErrNotFound.
	GetByProviderSubject(ctx context.Context, provider, subject string) (*Identity, error)

	// ListForUser retorna las identidades vinculadas al usuario.
	ListForUser(ctx context.Context, userID string) ([]*Identity, error)

	// List retorna todas las identidades.
	List(ctx context.Context) ([]*Identity, error)

	// Delete borra la identidad del par (usuario, proveedor).
	Delete(ctx context.Context, userID, provider string) error
}

type identityRepository struct {
	items itemStore[Identity, *Identity]
}

// NewIdentityRepository crea el repositorio de identidades sobre el store dado.
func NewIdentityRepository(s store.Store) IdentityRepository {
	return &identityRepository{items: itemStore[Identity, *Identity]{store: s}}
}

func (r *identityRepository) Upsert(ctx context.Context, ident Identity) (*Identity, error) {
	if ident.UserID == "" || ident.Provider == "" || ident.Subject == "" {
		return nil, fmt.Errorf("%w: user id, provider and subject are required", ErrInvalidInput)
	}

	// Una cuenta de proveedor pertenece a un solo usuario. Chequeo
	// read-then-write: dos upserts concurrentes del mismo sub podrían
	// colarse, y el perdedor queda detectable porque la clave secundaria
	// resuelve al ganador.
	existing, err := r.GetByProviderSubject(ctx, ident.Provider, ident.Subject)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.UserID != ident.UserID {
		return nil, ErrIdentityTaken
	}

	ident.StoredItem.ID = IdentityID(ident.UserID, ident.Provider)

	// Preserva CreatedAt del vínculo original a través de re-logins.
	if prev, err := r.items.get(ctx, ident.StoredItem.ID); err == nil {
		ident.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := r.items.put(ctx, &ident, identitySecondary(ident.Provider, ident.Subject)); err != nil {
		return nil, err
	}
	return &ident, nil
}

func (r *identityRepository) Get(ctx context.Context, userID, provider string) (*Identity, error) {
	if userID == "" || provider == "" {
		return nil, ErrInvalidInput
	}
	return r.items.get(ctx, IdentityID(userID, provider))
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*Identity, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return r.items.get(ctx, id)
}

func (r *identityRepository) GetByProviderSubject(ctx context.Context, provider, subject string) (*Identity, error) {
	// Guarda dura: con argumentos vacíos la clave secundaria degeneraría
	// en un prefijo que matchea de más.
	if provider == "" || subject == "" {
		return nil, fmt.Errorf("%w: provider and subject are required", ErrInvalidInput)
	}
	matches, err := r.items.bySecondary(ctx, identitySecondary(provider, subject))
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("repository: %d identities share subject %s on %s",
			len(matches), subject, provider)
	}
}

func (r *identityRepository) ListForUser(ctx context.Context, userID string) ([]*Identity, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return r.items.scan(ctx, identityIDPrefix+userID+"#")
}

func (r *identityRepository) List(ctx context.Context) ([]*Identity, error) {
	return r.items.scan(ctx, identityIDPrefix)
}

func (r *identityRepository) Delete(ctx context.Context, userID, provider string) error {
	if userID == "" || provider == "" {
		return ErrInvalidInput
	}
	return r.items.delete(ctx, IdentityID(userID, provider))
}
