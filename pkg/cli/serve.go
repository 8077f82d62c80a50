package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/classzip/pkg/cli/config"
	controller "github.com/m-mizutani/classzip/pkg/controller/http"
	"github.com/m-mizutani/classzip/pkg/infra/google"
	"github.com/m-mizutani/classzip/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		googleCfg config.Google
		sentryCfg config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, googleCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting classzip server",
				slog.String("addr", serverCfg.Addr),
				slog.String("static_dir", serverCfg.StaticDir),
				slog.String("redirect_uri", googleCfg.RedirectURI),
				slog.Bool("sentry", sentryCfg.Enabled()),
			)

			flushSentry, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flushSentry()

			// Create use cases
			factory := google.NewFactory()
			authUC := usecase.NewAuth(googleCfg.NewAuthenticator())
			classroomUC := usecase.NewClassroom(factory)
			archiveUC := usecase.NewArchive(factory)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				authUC,
				classroomUC,
				archiveUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithStaticDir(serverCfg.StaticDir),
				controller.WithSecureCookie(serverCfg.SecureCookie),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			eg, egCtx := errgroup.WithContext(ctx)

			eg.Go(func() error {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", serverCfg.Addr))
				}
				return nil
			})

			eg.Go(func() error {
				// Wait for interrupt signal
				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
				defer signal.Stop(sigChan)

				select {
				case <-egCtx.Done():
					logger.Info("Context cancelled, shutting down...")
				case sig := <-sigChan:
					logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
				}

				// Graceful shutdown
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown complete")
				return nil
			})

			return eg.Wait()
		},
	}
}
