package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-sistema/internal/authz"
	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	"os-sistema/internal/services"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewUserController(
	userService services.UserServiceInterface,
	authService services.AuthServiceInterface,
	logger *zap.Logger,
) *UserController {
	return &UserController{userService: userService, authService: authService, logger: logger}
}

// requireAdmin resolve o ator autenticado e barra quem não gerencia usuários.
func (uc *UserController) requireAdmin(c echo.Context) (int64, error) {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return 0, err
	}
	actor, err := uc.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return 0, err
	}
	if !authz.Can(entities.Role(actor.Role), authz.UsersManage) {
		return 0, apperrors.NewForbiddenError("apenas admin gerencia usuários")
	}
	return userID, nil
}

func (uc *UserController) Create(c echo.Context) error {
	if _, err := uc.requireAdmin(c); err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}

	var payload dto.CreateUserDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, uc.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}

	user, err := uc.userService.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}
	return utils.SuccessResponse(c, user, "Usuário criado", http.StatusCreated)
}

func (uc *UserController) Update(c echo.Context) error {
	if _, err := uc.requireAdmin(c); err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, uc.logger)
	}

	var payload dto.UpdateUserDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, uc.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}

	user, err := uc.userService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}
	return utils.SuccessResponse(c, user, "Usuário atualizado", http.StatusOK)
}

func (uc *UserController) Delete(c echo.Context) error {
	actorID, err := uc.requireAdmin(c)
	if err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, uc.logger)
	}

	if err := uc.userService.Delete(c.Request().Context(), actorID, id); err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}
	return utils.SuccessResponse(c, nil, "Usuário removido", http.StatusOK)
}

func (uc *UserController) FindByID(c echo.Context) error {
	if _, err := uc.requireAdmin(c); err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, uc.logger)
	}

	user, err := uc.userService.FindByID(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}
	return utils.SuccessResponse(c, user, "", http.StatusOK)
}

func (uc *UserController) List(c echo.Context) error {
	if _, err := uc.requireAdmin(c); err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}

	users, err := uc.userService.List(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, uc.logger)
	}
	return utils.SuccessResponse(c, users, "", http.StatusOK)
}
