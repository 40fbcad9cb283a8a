package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/clover/internal/repositories/location"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/health"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/redis"
	listingroutes "github.com/Ramsey-B/clover/pkg/routes/listing"
	"github.com/Ramsey-B/clover/pkg/startup"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(tracing.NewProvider(cfg.AppName, cfg.TracingEnabled, cfg.OTLP()))

	var migration *database.MigrationConfig
	if cfg.DatabaseMigrateOnStart {
		migration = cfg.Migration()
	}
	db := database.NewDependency(cfg.Database(), migration, logger)
	boot.AddDependency(db)

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(cfg.Redis(), logger)
		boot.AddDependency(redisClient)
	}

	var producer *events.Producer
	if cfg.KafkaEventsEnabled {
		var err error
		if producer, err = events.NewProducer(cfg.Producer(), logger); err != nil {
			return err
		}
		boot.AddDependency(producer)
	}

	if err := boot.Start(ctx); err != nil {
		_ = boot.Stop(context.Background())
		return err
	}

	a := wire(cfg, db.DB(), redisClient, producer, logger)

	// the reconciler needs the wired location repository, so it joins the graph after the first start
	boot.AddDependency(location.NewReconciler(a.locations, cfg.ReconcileInterval, logger))
	if err := boot.Start(ctx); err != nil {
		_ = boot.Stop(context.Background())
		return err
	}

	checker := health.NewChecker(db.DB(), cfg.Version)
	if redisClient != nil {
		checker.AddOptional("redis", health.PingFunc(redisClient.Ping))
	}

	e := newServer(listingroutes.NewHandler(a.service, logger), checker)

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Infof("Listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	checker.SetReady(true)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
	}
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}

	drainCtx, cancelDrain := context.WithTimeout(shutdownCtx, cfg.CounterDrainTimeout)
	defer cancelDrain()
	if err := a.service.Drain(drainCtx); err != nil {
		logger.WithError(err).Warn("Counter increments still in flight at shutdown")
	}

	if err := boot.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func newServer(handler *listingroutes.Handler, checker *health.Checker) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: cfg.AllowOrigins}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler.RegisterRoutes(e.Group("/api/v1"))
	return e
}
