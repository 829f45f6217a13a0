package auth

import (
	"net/http"

	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

// LogoutController reemplaza la sesión actual por una anónima nueva y
// redirige a la raíz. No requiere autenticación: logout sobre una sesión
// inválida es un no-op inofensivo.
type LogoutController struct {
	sessions *session.Codec
}

// NewLogoutController crea el controller con sus dependencias.
func NewLogoutController(sessions *session.Codec) *LogoutController {
	return &LogoutController{sessions: sessions}
}

func (c *LogoutController) Handle(w http.ResponseWriter, r *http.Request) {
	if err := c.sessions.Write(w, session.NewAnonymous()); err != nil {
		logger.From(r.Context()).Error("logout: write session", logger.Err(err))
		helpers.WriteAppError(w, apperrors.ErrInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
