package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/campweek/core/camp"
)

func registerReferenceAPI(g *echo.Group) {
	g.GET("/weeks", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, camp.Weeks)
	})
	g.GET("/categories", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, camp.Categories)
	})
}
