package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/phrazzld/rewriter/internal/rewrite"
	"github.com/spf13/cobra"
)

func newRunCmd(c *cli) *cobra.Command {
	var opts rewrite.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rewrite every stored record once",
		Long: "Loads the record snapshot, rewrites title, description and summary of each record " +
			"with a bounded worker pool, and prints one notice per record.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Limit < 0 || opts.WorkerCount < 0 {
				return fmt.Errorf("--limit and --workers must not be negative")
			}

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

			if _, err := app.orchestrator.Run(ctx, opts); err != nil {
				c.logger.Error("rewrite run failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().Int64SliceVar(&opts.IDs, "ids", nil, "only rewrite these record ids")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "rewrite at most this many records (0 = all)")
	cmd.Flags().IntVar(&opts.WorkerCount, "workers", 0, "override rewrite.worker_count")

	return cmd
}
