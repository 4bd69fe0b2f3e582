package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "os-sistema/pkg/errors"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// sentinel auth errors that are not wrapped in HttpError by the middleware
var sentinelStatus = map[error]int{
	apperrors.ErrEmptyAuthHeader:         http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:       http.StatusUnauthorized,
	apperrors.ErrInvalidToken:            http.StatusUnauthorized,
	apperrors.ErrTokenExpired:            http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:        http.StatusUnauthorized,
	apperrors.ErrUnauthorized:            http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext: http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:      http.StatusUnauthorized,
	apperrors.ErrForbidden:               http.StatusForbidden,
	apperrors.ErrNotFound:                http.StatusNotFound,
	apperrors.ErrBadRequest:              http.StatusBadRequest,
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		return c.JSON(httpErr.Code, &HTTPResponse{Status: false, Message: httpErr.Message})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("campo '%s' falhou na regra '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusUnprocessableEntity, &HTTPResponse{
			Status:  false,
			Message: "Erro de validação: " + strings.Join(msgs, "; "),
		})
	}

	for sentinel, code := range sentinelStatus {
		if errors.Is(err, sentinel) {
			return c.JSON(code, &HTTPResponse{Status: false, Message: sentinel.Error()})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{
		Status:  false,
		Message: "Erro interno do servidor",
	})
}
