package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/robmiller/expurgate/config"
	"github.com/robmiller/expurgate/di"
	middleware_custom "github.com/robmiller/expurgate/middleware"
	"github.com/robmiller/expurgate/utils/logger"
)

func RegisterRoutes(e *echo.Echo, container *di.ApplicationComponents, cfg *config.Config) {
	// 1. Request ID first so every later log line carries it
	e.Use(middleware_custom.RequestIDMiddleware())

	// 2. Recovery
	e.Use(middleware.Recover())

	// 3. Tracing
	if cfg.Telemetry.Enabled {
		e.Use(otelecho.Middleware(cfg.Telemetry.ServiceName))
		e.Use(middleware_custom.OTelStatusMiddleware())
	}

	// 4. Request logging
	baseLogger := logger.Logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}
	e.Use(middleware_custom.LoggingMiddleware(baseLogger))

	registerImageRoutes(e, container, cfg)
	registerHealthRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
