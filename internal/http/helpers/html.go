package helpers

import (
	"html/template"
	"net/http"

	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
)

// errorPage es la página mínima que ve el navegador cuando el callback de
// OAuth falla: ahí no hay frontend que renderice un JSON. El template
// escapa el mensaje, que puede incluir texto originado en el proveedor.
var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<p><a href="/">Back</a></p>
</body>
</html>
`))

// WriteHTMLError escribe un AppError como página HTML.
func WriteHTMLError(w http.ResponseWriter, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)

	msg := appErr.Message
	if appErr.Detail != "" {
		msg += " " + appErr.Detail
	}
	_ = errorPage.Execute(w, map[string]string{
		"Title":   http.StatusText(appErr.HTTPStatus),
		"Message": msg,
	})
}
