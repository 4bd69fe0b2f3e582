package routes

import (
	"github.com/labstack/echo/v4"

	"os-sistema/internal/controllers"
)

func registerReportRoutes(g *echo.Group, dc *controllers.DashboardController, rc *controllers.ReportController) {
	g.GET("/relatorios/dashboard", dc.Dashboard)
	g.GET("/relatorios/export", rc.ExportXLSX)
}
