package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT e tokens
	ErrInvalidSigningMethod = fmt.Errorf("método de assinatura do token inválido")
	ErrInvalidToken         = fmt.Errorf("token inválido")
	ErrTokenExpired         = fmt.Errorf("token expirado")
	ErrTokenNotYetValid     = fmt.Errorf("token ainda não é válido")

	// Autenticação
	ErrEmptyAuthHeader    = fmt.Errorf("cabeçalho de autorização ausente")
	ErrInvalidAuthHeader  = fmt.Errorf("formato do cabeçalho de autorização inválido")
	ErrInvalidCredentials = fmt.Errorf("usuário ou senha incorretos")
	ErrUnauthorized       = fmt.Errorf("não autenticado")
	ErrForbidden          = fmt.Errorf("acesso negado")

	// Contexto
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID não encontrado no contexto da requisição")

	// Gerais
	ErrNotFound   = fmt.Errorf("registro não encontrado")
	ErrBadRequest = fmt.Errorf("requisição inválida")
)

// HttpError carries the HTTP status a domain error maps to. Controllers never
// pick status codes themselves; services build these and ErrorResponse renders
// them.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

// Taxonomy constructors. One per error class the API exposes.

func NewValidationError(format string, args ...interface{}) *HttpError {
	return NewHttpError(http.StatusUnprocessableEntity, fmt.Sprintf(format, args...), nil)
}

func NewNotFoundError(format string, args ...interface{}) *HttpError {
	return NewHttpError(http.StatusNotFound, fmt.Sprintf(format, args...), nil)
}

func NewConflictError(format string, args ...interface{}) *HttpError {
	return NewHttpError(http.StatusConflict, fmt.Sprintf(format, args...), nil)
}

func NewForbiddenError(format string, args ...interface{}) *HttpError {
	return NewHttpError(http.StatusForbidden, fmt.Sprintf(format, args...), nil)
}

func NewUnauthenticatedError(format string, args ...interface{}) *HttpError {
	return NewHttpError(http.StatusUnauthorized, fmt.Sprintf(format, args...), nil)
}

func NewDependencyUnavailableError(message string, err error) *HttpError {
	return NewHttpError(http.StatusServiceUnavailable, message, err)
}
