package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/services"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ac *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ac.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ac.logger)
	}

	resp, err := ac.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ac.logger)
	}
	return utils.SuccessResponse(c, resp, "Login realizado com sucesso", http.StatusOK)
}

func (ac *AuthController) Me(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ac.logger)
	}

	user, err := ac.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ac.logger)
	}
	return utils.SuccessResponse(c, user, "", http.StatusOK)
}
