package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/services"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/filestorage"
	"os-sistema/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	fileStorage  filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{orderService: orderService, fileStorage: fileStorage, logger: logger}
}

func (oc *OrderController) Create(c echo.Context) error {
	var payload dto.CreateOrderDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, oc.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	order, err := oc.orderService.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return utils.SuccessResponse(c, order, "O.S criada", http.StatusCreated)
}

func (oc *OrderController) List(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	values := c.QueryParams()
	limit, offset := utils.ParsePaginationParams(values)
	filter := dto.OrderFilterDTO{
		Status: values.Get("status"),
		TipoOS: values.Get("tipo_os"),
		Cidade: values.Get("cidade"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := values.Get("tecnico_campo_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(c, apperrors.ErrBadRequest, oc.logger)
		}
		filter.TecnicoCampoID = &id
	}
	if raw := values.Get("tecnico_executor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(c, apperrors.ErrBadRequest, oc.logger)
		}
		filter.ExecutorID = &id
	}

	list, err := oc.orderService.List(c.Request().Context(), userID, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return utils.SuccessResponse(c, list, "", http.StatusOK)
}

func (oc *OrderController) FindByID(c echo.Context) error {
	userID, orderID, err := oc.actorAndOrderID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	order, err := oc.orderService.FindByID(c.Request().Context(), userID, orderID)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return utils.SuccessResponse(c, order, "", http.StatusOK)
}

func (oc *OrderController) Assign(c echo.Context) error {
	userID, orderID, err := oc.actorAndOrderID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	var payload dto.AssignOrderDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, oc.logger)
	}

	order, err := oc.orderService.Assign(c.Request().Context(), userID, orderID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return utils.SuccessResponse(c, order, "O.S assumida", http.StatusOK)
}

func (oc *OrderController) Complete(c echo.Context) error {
	userID, orderID, err := oc.actorAndOrderID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	var payload dto.CompleteOrderDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, oc.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	order, err := oc.orderService.Complete(c.Request().Context(), userID, orderID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return utils.SuccessResponse(c, order, "O.S finalizada", http.StatusOK)
}

// CompleteWithPhoto recebe a comprovação como multipart, grava no storage e
// delega a finalização.
func (oc *OrderController) CompleteWithPhoto(c echo.Context) error {
	userID, orderID, err := oc.actorAndOrderID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	fileHeader, err := c.FormFile("foto_comprovacao")
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewValidationError("arquivo 'foto_comprovacao' é obrigatório"), oc.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	defer src.Close()

	url, err := oc.fileStorage.Save(src, fileHeader.Filename, "comprovacao")
	if err != nil {
		oc.logger.Error("falha ao gravar foto de comprovação", zap.Error(err))
		return utils.ErrorResponse(c, err, oc.logger)
	}

	payload := dto.CompleteOrderDTO{
		FotoComprovacao: url,
		Observacoes:     c.FormValue("observacoes"),
	}

	order, err := oc.orderService.Complete(c.Request().Context(), userID, orderID, payload)
	if err != nil {
		// a O.S não mudou de estado, o arquivo órfão não deve ficar
		if delErr := oc.fileStorage.Delete(url); delErr != nil {
			oc.logger.Warn("falha ao remover arquivo órfão", zap.String("url", url), zap.Error(delErr))
		}
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return utils.SuccessResponse(c, order, "O.S finalizada", http.StatusOK)
}

func (oc *OrderController) ForceUpdate(c echo.Context) error {
	userID, orderID, err := oc.actorAndOrderID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	var payload dto.ForceUpdateOrderDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, oc.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	order, err := oc.orderService.ForceUpdate(c.Request().Context(), userID, orderID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return utils.SuccessResponse(c, order, "O.S atualizada", http.StatusOK)
}

func (oc *OrderController) Delete(c echo.Context) error {
	userID, orderID, err := oc.actorAndOrderID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}

	if err := oc.orderService.Delete(c.Request().Context(), userID, orderID); err != nil {
		return utils.ErrorResponse(c, err, oc.logger)
	}
	return c.NoContent(http.StatusNoContent)
}

func (oc *OrderController) actorAndOrderID(c echo.Context) (int64, int64, error) {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return 0, 0, err
	}
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, 0, apperrors.ErrBadRequest
	}
	return userID, orderID, nil
}
