// Package middlewares contiene los middlewares HTTP de la aplicación.
package middlewares

import "net/http"

// Middleware es la firma estándar compatible con chi.
type Middleware func(http.Handler) http.Handler
