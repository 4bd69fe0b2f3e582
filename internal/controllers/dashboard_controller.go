package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-sistema/internal/authz"
	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	"os-sistema/internal/services"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	authService      services.AuthServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(
	dashboardService services.DashboardServiceInterface,
	authService services.AuthServiceInterface,
	logger *zap.Logger,
) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, authService: authService, logger: logger}
}

func reportFilterFromQuery(c echo.Context) dto.ReportFilterDTO {
	return dto.ReportFilterDTO{
		DataInicio: c.QueryParam("data_inicio"),
		DataFim:    c.QueryParam("data_fim"),
		Cidade:     c.QueryParam("cidade"),
		TipoOS:     c.QueryParam("tipo_os"),
	}
}

// requireReportAccess resolve o ator e valida a operação de relatórios na
// tabela de política.
func requireReportAccess(c echo.Context, authService services.AuthServiceInterface) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return err
	}
	actor, err := authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if !authz.Can(entities.Role(actor.Role), authz.ReportsView) {
		return apperrors.NewForbiddenError("papel '%s' não pode consultar relatórios", actor.Role)
	}
	return nil
}

func (dc *DashboardController) Dashboard(c echo.Context) error {
	if err := requireReportAccess(c, dc.authService); err != nil {
		return utils.ErrorResponse(c, err, dc.logger)
	}

	dash, err := dc.dashboardService.Dashboard(c.Request().Context(), reportFilterFromQuery(c))
	if err != nil {
		return utils.ErrorResponse(c, err, dc.logger)
	}
	return utils.SuccessResponse(c, dash, "", http.StatusOK)
}
