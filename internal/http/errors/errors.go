// Package errors define el catálogo de errores HTTP de la aplicación.
// Los mensajes van al cliente; la causa (Err) solo a los logs.
package errors

import "net/http"

// ---------------------------------------------------------------------------------
// 400 Bad Request
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is malformed or is missing parameters.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrProviderMissing = &AppError{
		Code:       "PROVIDER_MISSING",
		Message:    "An OAuth provider must be named in the path.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCodeMissing = &AppError{
		Code:       "CODE_MISSING",
		Message:    "The authorization code is not present.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrLastIdentity = &AppError{
		Code:       "LAST_IDENTITY",
		Message:    "The last identity of an account cannot be removed.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// ---------------------------------------------------------------------------------
// 401 Unauthorized
// ---------------------------------------------------------------------------------

var (
	ErrNotAuthenticated = &AppError{
		Code:       "NOT_AUTHENTICATED",
		Message:    "The request is not authenticated.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "No user exists for this session.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrStateMissing = &AppError{
		Code:       "STATE_MISSING",
		Message:    "The state parameter is not present.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrStateInvalid = &AppError{
		Code:       "STATE_INVALID",
		Message:    "The state parameter is not valid.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrSessionRequired = &AppError{
		Code:       "SESSION_REQUIRED",
		Message:    "An active session is required to validate the state parameter.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrProviderDenied = &AppError{
		Code:       "PROVIDER_DENIED",
		Message:    "The provider rejected the authorization.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrClaimMissing = &AppError{
		Code:       "CLAIM_MISSING",
		Message:    "The id_token is missing a required claim.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrIDTokenMissing = &AppError{
		Code:       "ID_TOKEN_MISSING",
		Message:    "The provider response does not include an id_token.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// ---------------------------------------------------------------------------------
// 403 Forbidden
// ---------------------------------------------------------------------------------

var (
	ErrCsrfRequired = &AppError{
		Code:       "CSRF_REQUIRED",
		Message:    "A CSRF token is required for this request.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrCsrfInvalid = &AppError{
		Code:       "CSRF_INVALID",
		Message:    "The CSRF token is not valid for this session.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrIdentityConflict = &AppError{
		Code:       "IDENTITY_CONFLICT",
		Message:    "This provider account is already linked to another user.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrIdentityNotOwned = &AppError{
		Code:       "IDENTITY_NOT_OWNED",
		Message:    "The identity does not belong to the authenticated user.",
		HTTPStatus: http.StatusForbidden,
	}
)

// ---------------------------------------------------------------------------------
// 404 Not Found
// ---------------------------------------------------------------------------------

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrIdentityNotFound = &AppError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "The identity does not exist.",
		HTTPStatus: http.StatusNotFound,
	}
)

// ---------------------------------------------------------------------------------
// 500 Internal Server Error
// ---------------------------------------------------------------------------------

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An internal error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrProviderConfig = &AppError{
		Code:       "PROVIDER_CONFIG",
		Message:    "The OAuth provider is not fully configured.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrProviderFailure = &AppError{
		Code:       "PROVIDER_FAILURE",
		Message:    "The provider reported an unexpected error.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrTokenExchange = &AppError{
		Code:       "TOKEN_EXCHANGE",
		Message:    "Token request failed.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
