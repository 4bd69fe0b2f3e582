package routes

import (
	"github.com/labstack/echo/v4"

	"os-sistema/internal/controllers"
)

func registerOrderRoutes(g *echo.Group, oc *controllers.OrderController) {
	g.POST("/os", oc.Create)
	g.GET("/os", oc.List)
	g.GET("/os/:id", oc.FindByID)
	g.PATCH("/os/:id/assumir", oc.Assign)
	g.PATCH("/os/:id/finalizar", oc.Complete)
	g.POST("/os/:id/finalizar-com-foto", oc.CompleteWithPhoto)
	g.PATCH("/os/:id", oc.ForceUpdate)
	g.DELETE("/os/:id", oc.Delete)
}
