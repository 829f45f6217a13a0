package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
)

// ReadJSON decodifica JSON de forma tolerante (no falla por campos
// desconocidos). Valida Content-Type y limita el body a 1MB.
// Devuelve false si ya escribió el error HTTP.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		WriteAppError(w, apperrors.ErrBadRequest.WithDetail("Content-Type must be application/json"))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		WriteAppError(w, apperrors.ErrBadRequest.WithDetail("invalid json body"))
		return false
	}
	return true
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteAppError serializa un AppError como {"error": {...}}.
func WriteAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	WriteJSON(w, appErr.HTTPStatus, map[string]any{"error": appErr})
}

// WriteError convierte cualquier error a AppError y lo escribe.
func WriteError(w http.ResponseWriter, err error) {
	WriteAppError(w, apperrors.FromError(err))
}
