package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/robmiller/expurgate/config"
	"github.com/robmiller/expurgate/di"
	"github.com/robmiller/expurgate/domain"
	apperrors "github.com/robmiller/expurgate/utils/errors"
	"github.com/robmiller/expurgate/utils/logger"
)

const notFoundBody = "not found"

// registerImageRoutes mounts the image endpoint at the root, where existing
// links point, and under /v1.
func registerImageRoutes(e *echo.Echo, container *di.ApplicationComponents, cfg *config.Config) {
	handler := handleImage(container, cfg)
	e.GET("/", handler)
	e.GET("/v1/images", handler)
}

// handleImage serves ?url=&checksum=. Every failure is a plain 404; the cause
// only shows up in logs and metrics. Cache maintenance runs once the response
// has been flushed to the client.
func handleImage(container *di.ApplicationComponents, cfg *config.Config) echo.HandlerFunc {
	cacheControl := "public, max-age=" + strconv.FormatInt(int64(cfg.Cache.MaxAge.Seconds()), 10)
	log := logger.NewContextLogger(slog.Default())

	return func(c echo.Context) error {
		ctx := c.Request().Context()
		imageURL := c.QueryParam("url")
		checksum := c.QueryParam("checksum")

		image, err := container.ImageCacheUsecase.Serve(ctx, imageURL, checksum)

		var writeErr error
		if err != nil {
			log.WithContext(ctx).InfoContext(ctx, "image request rejected",
				"reason", apperrors.Reason(err),
				"error", err,
			)
			writeErr = c.String(http.StatusNotFound, notFoundBody)
		} else {
			writeErr = writeImage(c, image, cacheControl)
		}

		if writeErr == nil {
			_ = http.NewResponseController(c.Response().Writer).Flush()
		}
		container.ImageCacheUsecase.AfterResponse(ctx, image)

		return writeErr
	}
}

func writeImage(c echo.Context, image *domain.CachedImage, cacheControl string) error {
	header := c.Response().Header()
	header.Set(echo.HeaderContentLength, strconv.Itoa(len(image.Data)))
	header.Set("Cache-Control", cacheControl)
	header.Set(echo.HeaderXContentTypeOptions, "nosniff")
	return c.Blob(http.StatusOK, image.MimeType, image.Data)
}
