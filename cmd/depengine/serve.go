package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/kbukum/depengine/config"
	"github.com/kbukum/depengine/di"
	"github.com/kbukum/depengine/inspect"
	"github.com/kbukum/depengine/logger"
	"github.com/kbukum/depengine/observability"
	"github.com/kbukum/depengine/version"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the registry and its inspection server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.Init(cfg.Logging)
	log := logger.WithComponent("serve")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []di.Option{di.WithLogger(logger.WithComponent("di"))}

	var tel *observability.Telemetry
	if cfg.Telemetry.Enabled {
		var err error
		tel, err = setupTelemetry(ctx, cfg)
		if err != nil {
			return err
		}
		obs, err := observability.NewRegistryObserver(otel.GetMeterProvider(), otel.GetTracerProvider())
		if err != nil {
			_ = tel.Shutdown(context.Background())
			return err
		}
		opts = append(opts, di.WithObserver(obs))
	}

	reg := di.New(opts...)
	di.SetDefault(reg)
	handles := registerServices(reg, cfg.Engine, log)

	var srv *inspect.Server
	if cfg.Inspect.Enabled {
		handler := inspect.Handler(reg,
			inspect.WithBasePath(cfg.Inspect.BasePath),
			inspect.WithLogger(logger.WithComponent("inspect")),
		)
		srv = inspect.NewServer(cfg.Inspect.Addr, handler, logger.WithComponent("inspect"))
		if err := srv.Start(ctx); err != nil {
			shutdown(log, nil, handles, reg, tel, cfg)
			return err
		}
	}

	log.Info("Application ready, waiting for shutdown signal", logger.Fields(
		"name", cfg.Name,
		"environment", cfg.Environment,
	))
	<-ctx.Done()

	return shutdown(log, srv, handles, reg, tel, cfg)
}

func setupTelemetry(ctx context.Context, cfg *config.Config) (*observability.Telemetry, error) {
	return observability.Init(ctx, observability.Config{
		ServiceName:    cfg.Name,
		ServiceVersion: version.Get().Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
		Interval:       cfg.Telemetry.Interval,
	})
}

// shutdown stops the server, closes the registry, releases handles and
// flushes telemetry, in that order. The registry goes before the handles so
// constructed closers are closed rather than dropped by an OnRelease removal.
func shutdown(log *logger.Logger, srv *inspect.Server, handles []io.Closer, reg *di.Registry, tel *observability.Telemetry, cfg *config.Config) error {
	log.Info("Shutting down", logger.Fields("timeout", cfg.Inspect.ShutdownTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Inspect.ShutdownTimeout)
	defer cancel()

	var errs []error
	if srv != nil {
		errs = append(errs, srv.Stop(ctx))
	}
	errs = append(errs, reg.Close())
	for _, h := range handles {
		errs = append(errs, h.Close())
	}
	errs = append(errs, tel.Shutdown(ctx))

	err := errors.Join(errs...)
	if err != nil {
		log.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	log.Info("Shutdown complete")
	return nil
}
