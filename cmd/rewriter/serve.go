package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/rewriter/internal/api"
	"github.com/phrazzld/rewriter/internal/rewrite"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the run API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, c.cfg, c.logger)
			if err != nil {
				c.logger.Error("database setup failed", "error", err)
				return err
			}
			defer func() { _ = db.Close() }()

			app, err := newApplication(ctx, c.cfg, db, cmd.OutOrStdout(), c.logger)
			if err != nil {
				c.logger.Error("application setup failed", "error", err)
				return err
			}

			// Runs outlive their request but stop with the server.
			runCtx, cancelRuns := context.WithCancel(context.WithoutCancel(ctx))
			defer cancelRuns()
			dispatcher := rewrite.NewDispatcher(runCtx, app.orchestrator, app.runs, c.logger)

			router := api.NewRouter(api.RouterConfig{
				Runs:    api.NewRunHandler(app.runs, dispatcher, c.logger),
				Metrics: app.metrics.Handler(),
				Logger:  c.logger,
			})
			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", c.cfg.Server.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				c.logger.Info("starting server", "port", c.cfg.Server.Port)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					c.logger.Error("server failed", "error", err)
					return err
				}
			case <-ctx.Done():
				c.logger.Info("shutting down server")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				c.logger.Error("server shutdown failed", "error", err)
				return fmt.Errorf("server shutdown failed: %w", err)
			}

			cancelRuns()
			dispatcher.Wait()
			c.logger.Info("server shutdown completed")
			return nil
		},
	}
}
