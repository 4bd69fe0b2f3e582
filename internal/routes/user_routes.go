package routes

import (
	"github.com/labstack/echo/v4"

	"os-sistema/internal/controllers"
)

func registerUserRoutes(g *echo.Group, uc *controllers.UserController) {
	g.POST("/usuarios", uc.Create)
	g.GET("/usuarios", uc.List)
	g.GET("/usuarios/:id", uc.FindByID)
	g.PATCH("/usuarios/:id", uc.Update)
	g.DELETE("/usuarios/:id", uc.Delete)
}
