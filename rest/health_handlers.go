package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func registerHealthRoutes(e *echo.Echo) {
	e.GET("/v1/health", func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})
}
