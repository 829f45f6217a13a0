package auth

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// identityIDParam es el parámetro de ruta con el id de la identidad.
const identityIDParam = "identityID"

// DeleteIdentityController desvincula una identidad del usuario actual.
// Nunca borra la última: un usuario sin identidades no puede volver a
// loguearse jamás.
type DeleteIdentityController struct {
	identities repository.IdentityRepository
}

// NewDeleteIdentityController crea el controller con sus dependencias.
func NewDeleteIdentityController(identities repository.IdentityRepository) *DeleteIdentityController {
	return &DeleteIdentityController{identities: identities}
}

func (c *DeleteIdentityController) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middlewares.UserFrom(ctx)

	identityID := chi.URLParam(r, identityIDParam)
	// chi matchea sobre el path escapado; el id viene percent-encoded
	// porque contiene ':' y '#'.
	if unescaped, err := url.PathUnescape(identityID); err == nil {
		identityID = unescaped
	}
	if identityID == "" {
		helpers.WriteAppError(w, apperrors.ErrBadRequest.
			WithDetail("The identityID parameter is required."))
		return
	}

	owned, err := c.identities.ListForUser(ctx, user.ID)
	if err != nil {
		logger.From(ctx).Error("delete identity: list", logger.UserID(user.ID), logger.Err(err))
		helpers.WriteError(w, err)
		return
	}
	if len(owned) < 2 {
		helpers.WriteAppError(w, apperrors.ErrLastIdentity)
		return
	}

	var found *repository.Identity
	for _, ident := range owned {
		if ident.ID == identityID {
			found = ident
			break
		}
	}
	if found == nil {
		helpers.WriteAppError(w, apperrors.ErrIdentityNotFound)
		return
	}
	if found.UserID != user.ID {
		helpers.WriteAppError(w, apperrors.ErrIdentityNotOwned)
		return
	}

	if err := c.identities.Delete(ctx, found.UserID, found.Provider); err != nil {
		logger.From(ctx).Error("delete identity", logger.IdentityID(identityID), logger.Err(err))
		helpers.WriteError(w, err)
		return
	}

	logger.From(ctx).Info("identity unlinked",
		logger.UserID(user.ID),
		logger.IdentityID(identityID),
	)
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
