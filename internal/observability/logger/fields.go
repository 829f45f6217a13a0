package logger

import (
	"time"

	"go.uber.org/zap"
)

// ───── Campos estándar - HTTP ─────

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// ───── Campos estándar - Dominio ─────

// Provider crea un campo para el nombre del proveedor OAuth.
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// IdentityID crea un campo para el ID de una identidad vinculada.
func IdentityID(v string) zap.Field {
	return zap.String("identity_id", v)
}

// Subject crea un campo para el claim sub del proveedor.
func Subject(v string) zap.Field {
	return zap.String("subject", v)
}

// Setting crea un campo para el nombre de un setting de configuración.
func Setting(v string) zap.Field {
	return zap.String("setting", v)
}

// ───── Campos estándar - Infraestructura ─────

// Component crea un campo para el componente que emite el log.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación en curso.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, repository, store...).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// String es un alias de zap.String para no importar zap en los callers.
func String(k, v string) zap.Field {
	return zap.String(k, v)
}

// Int es un alias de zap.Int.
func Int(k string, v int) zap.Field {
	return zap.Int(k, v)
}

// Any es un alias de zap.Any.
func Any(k string, v any) zap.Field {
	return zap.Any(k, v)
}
