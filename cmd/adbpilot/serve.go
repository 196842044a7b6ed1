package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/adbpilot"
	"github.com/aretw0/adbpilot/internal/cli"
	"github.com/aretw0/adbpilot/internal/presentation/tui"
	httpAdapter "github.com/aretw0/adbpilot/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts adbpilot in server mode, exposing device actions, plan execution and the run
journal as a JSON API over HTTP. The OpenAPI contract is served at /openapi.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		logger := app.Pilot.Logger()

		opts := []httpAdapter.Option{
			httpAdapter.WithVersion(adbpilot.Version),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithValidation(cfg.Server.Validate),
		}
		if app.Metrics != nil {
			opts = append(opts, httpAdapter.WithMetrics(app.Metrics.Handler()))
		}
		handler, err := httpAdapter.NewHandler(app.Pilot, opts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: handler,
		}

		if cli.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr, "v"+strings.TrimSpace(adbpilot.Version))
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting adbpilot server", "address", srv.Addr, "device", app.Pilot.Device())
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("adbpilot server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 3000, "Port to listen on (overrides server.port and $PORT)")
}
