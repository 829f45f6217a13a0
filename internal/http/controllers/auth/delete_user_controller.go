package auth

import (
	"net/http"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

// DeleteUserController borra la cuenta del usuario autenticado junto con
// todas sus identidades, y degrada la sesión a anónima.
type DeleteUserController struct {
	sessions   *session.Codec
	users      repository.UserRepository
	identities repository.IdentityRepository
}

// NewDeleteUserController crea el controller con sus dependencias.
func NewDeleteUserController(sessions *session.Codec, users repository.UserRepository, identities repository.IdentityRepository) *DeleteUserController {
	return &DeleteUserController{sessions: sessions, users: users, identities: identities}
}

func (c *DeleteUserController) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx)
	user := middlewares.UserFrom(ctx)

	// Primero las identidades: si algo falla a mitad de camino es
	// preferible un usuario sin identidades (no puede loguearse) a
	// identidades huérfanas apuntando a un usuario borrado.
	idents, err := c.identities.ListForUser(ctx, user.ID)
	if err != nil {
		log.Error("delete user: list identities", logger.UserID(user.ID), logger.Err(err))
		helpers.WriteError(w, err)
		return
	}
	for _, ident := range idents {
		if err := c.identities.Delete(ctx, ident.UserID, ident.Provider); err != nil {
			log.Error("delete user: delete identity",
				logger.IdentityID(ident.ID), logger.Err(err))
			helpers.WriteError(w, err)
			return
		}
	}

	if err := c.users.Delete(ctx, user.ID); err != nil {
		log.Error("delete user", logger.UserID(user.ID), logger.Err(err))
		helpers.WriteError(w, err)
		return
	}

	if err := c.sessions.Write(w, session.NewAnonymous()); err != nil {
		log.Error("delete user: write session", logger.Err(err))
	}

	log.Info("user deleted", logger.UserID(user.ID), logger.Int("identities", len(idents)))
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
