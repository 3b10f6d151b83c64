package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-landing/core/notice"
)

func registerNoticeAPI(g *echo.Group) {
	ng := g.Group("/notices")
	ng.GET("", queryNotices)
	ng.GET("/:slug", retrieveNotice)
}

func queryNotices(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, notice.All())
}

func retrieveNotice(ctx echo.Context) error {
	n, ok := notice.Get(ctx.Param("slug"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, n)
}
