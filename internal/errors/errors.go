package errors

import (
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// APIError represents a structured error for API responses.
// Code is the machine-readable reason used in logs; Message is the
// client-facing text written as the single "error" field of the body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError with the given code, message, and status.
func NewAPIError(code, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// Predefined API errors. Token failures are deliberately coarse: a missing
// credential is distinguishable (client integration bug), but malformed,
// forged and expired tokens all read the same to the client.
var (
	ErrMissingToken            = NewAPIError("no_token", "Token no proporcionado", http.StatusUnauthorized)
	ErrInvalidToken            = NewAPIError("invalid_or_expired", "Token inválido o expirado", http.StatusUnauthorized)
	ErrInvalidCredentials      = NewAPIError("invalid_credentials", "Email o contraseña incorrectos", http.StatusUnauthorized)
	ErrMissingCredentials      = NewAPIError("missing_credentials", "Email y contraseña son requeridos", http.StatusBadRequest)
	ErrMissingFields           = NewAPIError("missing_fields", "Todos los campos son requeridos", http.StatusBadRequest)
	ErrInvalidEmail            = NewAPIError("invalid_email", "Email inválido", http.StatusBadRequest)
	ErrUsernameLength          = NewAPIError("invalid_username_length", "El nombre de usuario debe tener entre 3 y 50 caracteres", http.StatusBadRequest)
	ErrPasswordTooShort        = NewAPIError("password_too_short", "La contraseña debe tener al menos 6 caracteres", http.StatusBadRequest)
	ErrNewPasswordTooShort     = NewAPIError("new_password_too_short", "La nueva contraseña debe tener al menos 6 caracteres", http.StatusBadRequest)
	ErrDuplicateUser           = NewAPIError("duplicate_user", "El email o nombre de usuario ya está registrado", http.StatusConflict)
	ErrUsernameTaken           = NewAPIError("username_taken", "Este nombre de usuario ya está en uso", http.StatusConflict)
	ErrEmailTaken              = NewAPIError("email_taken", "Este email ya está en uso", http.StatusConflict)
	ErrUserNotFound            = NewAPIError("user_not_found", "Usuario no encontrado", http.StatusNotFound)
	ErrCurrentPasswordMissing  = NewAPIError("current_password_missing", "Debes proporcionar tu contraseña actual", http.StatusBadRequest)
	ErrCurrentPasswordMismatch = NewAPIError("current_password_mismatch", "La contraseña actual es incorrecta", http.StatusUnauthorized)
	ErrNothingToUpdate         = NewAPIError("nothing_to_update", "No hay datos para actualizar", http.StatusBadRequest)
	ErrMethodNotAllowed        = NewAPIError("method_not_allowed", "Método no permitido", http.StatusMethodNotAllowed)
	ErrRouteNotFound           = NewAPIError("not_found", "Recurso no encontrado", http.StatusNotFound)
	ErrInternalServer          = NewAPIError("internal_error", "Error interno del servidor", http.StatusInternalServerError)
)

// IsUniqueViolation checks for unique constraint violation (Postgres).
// Used to detect duplicate users that slip past the pre-insert checks.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	// Try to cast to pq.Error and check the code
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505" // unique_violation
	}

	// Fallback to message-based detection (optional)
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "unique constraint")
}
