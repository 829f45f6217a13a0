package auth

import (
	"net/http"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// meResponse sigue el shape del UserInfo Response de OIDC, extendido con
// las identidades vinculadas (el id es el que acepta el endpoint de
// desvinculación).
type meResponse struct {
	Sub        string          `json:"sub"`
	CreatedAt  int64           `json:"createdAt"`
	UpdatedAt  int64           `json:"updatedAt"`
	Providers  []string        `json:"providers"`
	Identities []identityEntry `json:"identities"`
}

type identityEntry struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Sub      string `json:"sub"`
	Email    string `json:"email,omitempty"`
}

// MeController responde el perfil del usuario autenticado.
type MeController struct {
	identities repository.IdentityRepository
}

// NewMeController crea el controller con sus dependencias.
func NewMeController(identities repository.IdentityRepository) *MeController {
	return &MeController{identities: identities}
}

func (c *MeController) Handle(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFrom(r.Context())

	idents, err := c.identities.ListForUser(r.Context(), user.ID)
	if err != nil {
		logger.From(r.Context()).Error("me: list identities", logger.UserID(user.ID), logger.Err(err))
		helpers.WriteError(w, err)
		return
	}

	resp := meResponse{
		Sub:        user.ID,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
		Providers:  make([]string, 0, len(idents)),
		Identities: make([]identityEntry, 0, len(idents)),
	}
	for _, ident := range idents {
		resp.Providers = append(resp.Providers, ident.Provider)
		resp.Identities = append(resp.Identities, identityEntry{
			ID:       ident.ID,
			Provider: ident.Provider,
			Sub:      ident.Subject,
			Email:    ident.Email,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
