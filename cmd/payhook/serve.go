package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	payhooks "github.com/goliatone/go-payhooks"
	"github.com/goliatone/go-payhooks/core"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook validator HTTP server",
		Long: `Starts the HTTP server exposing /webhook-validator, /health, /metrics
and the /bitpay test routes.

Credentials are read once at startup from the processor client file. Send
SIGHUP to reload them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := root.loadConfig(ctx, core.Config{HTTP: core.HTTPConfig{Port: port}})
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			app, err := payhooks.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			defer app.Close()
			return serve(ctx, app)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides PAYHOOKS_HTTP_PORT)")
	return cmd
}

func serve(ctx context.Context, app *payhooks.App) error {
	logger := app.Logger()
	server := app.HTTPServer()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server started", "addr", server.Addr, "environment", app.Config.Processor.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return reloadOnHangup(gCtx, app)
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func reloadOnHangup(ctx context.Context, app *payhooks.App) error {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hangup:
			if err := app.Credentials.Reload(ctx); err != nil {
				app.Logger().Error("credential reload failed", "error", err)
				continue
			}
			app.Logger().Info("credentials reloaded")
		}
	}
}
