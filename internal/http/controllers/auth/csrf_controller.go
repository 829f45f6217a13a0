package auth

import (
	"net/http"

	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/security/csrf"
)

// CsrfController emite un token CSRF para el principal de la sesión
// actual. El frontend lo pide antes de cualquier request mutante y lo
// manda de vuelta en el header X-CSRF-Token.
type CsrfController struct {
	tokens *csrf.Binder
}

// NewCsrfController crea el controller con sus dependencias.
func NewCsrfController(tokens *csrf.Binder) *CsrfController {
	return &CsrfController{tokens: tokens}
}

func (c *CsrfController) Handle(w http.ResponseWriter, r *http.Request) {
	sess := middlewares.SessionFrom(r.Context())
	if sess == nil {
		helpers.WriteAppError(w, apperrors.ErrNotAuthenticated)
		return
	}

	tok, err := c.tokens.Issue(sess.UserID)
	if err != nil {
		logger.From(r.Context()).Error("csrf: issue token", logger.Err(err))
		helpers.WriteAppError(w, apperrors.ErrInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(tok))
}
