package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/cli/config"
	controller "github.com/m-mizutani/pushgram/pkg/controller/http"
	"github.com/m-mizutani/pushgram/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		telegramCfg config.Telegram
		storeCfg    config.Store
		sentryCfg   config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, telegramCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting pushgram server",
				slog.String("addr", serverCfg.Addr),
				slog.Duration("delivery_timeout", serverCfg.DeliveryTimeout),
				slog.Any("telegram", telegramCfg),
				slog.String("store", storeCfg.Backend),
				slog.Bool("sentry", sentryCfg.Enabled()),
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)

			repo, closeRepo, err := storeCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure store")
			}
			defer closeRepo()
			if storeCfg.Backend == config.StoreMemory && storeCfg.RegistryFile == "" {
				logger.Warn("Memory store without registry file, every webhook will be rejected")
			}

			notifier, err := telegramCfg.Configure()
			if err != nil {
				return err
			}

			// Create use cases
			dispatchUC := usecase.NewDispatch(repo, notifier,
				usecase.WithDeliveryTimeout(serverCfg.DeliveryTimeout),
			)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				dispatchUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithReadHeaderTimeout(serverCfg.ReadHeaderTimeout),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "HTTP server error")
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return err
			}

			// Graceful shutdown; in-flight deliveries are allowed to finish
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
