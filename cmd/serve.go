package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robmiller/expurgate/di"
	"github.com/robmiller/expurgate/job"
	"github.com/robmiller/expurgate/rest"
	"github.com/robmiller/expurgate/utils/logger"
	"github.com/robmiller/expurgate/utils/otel"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the image proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log := logger.InitLogger(cfg.Logging.Level, cfg.Logging.Format)

	otelShutdown, err := otel.InitProvider(ctx, otel.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    1.0,
	})
	if err != nil {
		log.WarnContext(ctx, "failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		cfg.Telemetry.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	keyProvider := di.NewKeyProvider(cfg)
	key, err := di.LoadKey(ctx, keyProvider)
	if err != nil {
		log.ErrorContext(ctx, "secret key unavailable", "path", keyProvider.Path(), "error", err)
		return fmt.Errorf("load secret key: %w", err)
	}

	container, err := di.NewApplicationComponents(ctx, cfg, key)
	if err != nil {
		return fmt.Errorf("initialize components: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error("failed to close components", "error", err)
		}
	}()

	scheduler := job.NewJobScheduler()
	scheduler.Add(job.Job{
		Name:     "cache-maintenance",
		Interval: cfg.Cache.SweepInterval,
		Timeout:  cfg.Cache.MaintenanceTimeout,
		Fn:       job.CacheMaintenanceJob(container.EvictionUsecase),
	})
	if container.HostRateLimiter.Enabled() {
		scheduler.Add(job.Job{
			Name:     "rate-limiter-prune",
			Interval: 10 * time.Minute,
			Timeout:  time.Second,
			Fn:       job.RateLimiterPruneJob(container.HostRateLimiter),
		})
	}
	scheduler.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout
	rest.RegisterRoutes(e, container, cfg)

	limits := container.EvictionUsecase.Limits()
	address := fmt.Sprintf(":%d", cfg.Server.Port)
	log.InfoContext(ctx, "starting server",
		"address", address,
		"backend", cfg.Cache.Backend,
		"max_files", limits.MaxFiles,
		"max_total_size", limits.MaxTotalSize,
		"version", version,
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		scheduler.Shutdown()
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	slog.Info("server exited properly")
	return nil
}
