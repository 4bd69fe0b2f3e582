package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"os-sistema/internal/repositories"
	"os-sistema/internal/services"
	"os-sistema/pkg/utils"
)

type ReportController struct {
	reportRepo  repositories.ReportRepositoryInterface
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewReportController(
	reportRepo repositories.ReportRepositoryInterface,
	authService services.AuthServiceInterface,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{reportRepo: reportRepo, authService: authService, logger: logger}
}

var reportHeaders = []string{
	"Número O.S", "Status", "Tipo", "Cidade", "Motivo",
	"Técnico de Campo", "Técnico Executor",
	"Criada em", "Iniciada em", "Concluída em",
	"Espera (min)", "Execução (min)", "Total (min)",
}

// ExportXLSX devolve a planilha com uma linha por O.S do período filtrado.
func (rc *ReportController) ExportXLSX(c echo.Context) error {
	if err := requireReportAccess(c, rc.authService); err != nil {
		return utils.ErrorResponse(c, err, rc.logger)
	}

	items, err := rc.reportRepo.Items(c.Request().Context(), reportFilterFromQuery(c))
	if err != nil {
		return utils.ErrorResponse(c, err, rc.logger)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Relatório"
	f.SetSheetName("Sheet1", sheet)

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return utils.ErrorResponse(c, err, rc.logger)
	}

	headerRow := make([]interface{}, len(reportHeaders))
	for i, h := range reportHeaders {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return utils.ErrorResponse(c, err, rc.logger)
	}

	for i, it := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			it.NumeroOS, it.Status, it.TipoOS, it.Cidade, it.MotivoAbertura,
			it.TecnicoCampo, it.TecnicoExecutor.String,
			formatReportTime(it.CriadoEm),
			formatReportTime(it.IniciadoEm),
			formatReportTime(it.ConcluidoEm),
			roundedOrEmpty(it.TempoEsperaMin.Float64, it.TempoEsperaMin.Valid),
			roundedOrEmpty(it.TempoExecMin.Float64, it.TempoExecMin.Valid),
			roundedOrEmpty(it.TempoTotalMin.Float64, it.TempoTotalMin.Valid),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return utils.ErrorResponse(c, err, rc.logger)
		}
	}

	if err := sw.Flush(); err != nil {
		return utils.ErrorResponse(c, err, rc.logger)
	}

	filename := fmt.Sprintf("relatorio_os_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := f.Write(c.Response().Writer); err != nil {
		rc.logger.Error("falha ao escrever planilha na resposta", zap.Error(err))
		return err
	}
	return nil
}

func formatReportTime(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("02/01/2006 15:04")
}

func roundedOrEmpty(v float64, valid bool) interface{} {
	if !valid {
		return ""
	}
	return fmt.Sprintf("%.1f", v)
}
