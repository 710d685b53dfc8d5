package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/phrazzld/rewriter/internal/config"
	"github.com/phrazzld/rewriter/internal/platform/logger"
	"github.com/spf13/cobra"
)

// cli carries state shared by the subcommands once the root pre-run has
// loaded configuration.
type cli struct {
	configPath string
	envFile    string

	cfg    *config.Config
	logger *slog.Logger

	// logOutput receives structured logs; notices go to the command's stdout.
	logOutput io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{logOutput: os.Stderr}

	root := &cobra.Command{
		Use:           "rewriter",
		Short:         "Regenerate record titles, descriptions and summaries with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initialize()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"config file (defaults to $"+config.ConfigPathEnv+" or ./rewriter.yaml)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(
		newRunCmd(c),
		newMigrateCmd(c),
		newServeCmd(c),
	)

	return root
}

// initialize loads the dotenv file, configuration and logger.
func (c *cli) initialize() error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return c.fail(fmt.Errorf("failed to load %s: %w", c.envFile, err))
		}
	}

	path := c.configPath
	if path == "" {
		path = os.Getenv(config.ConfigPathEnv)
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return c.fail(fmt.Errorf("failed to load configuration: %w", err))
	}

	l, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Server.LogLevel,
		Output: c.logOutput,
	})
	if err != nil {
		return c.fail(fmt.Errorf("failed to set up logger: %w", err))
	}

	c.cfg = cfg
	c.logger = l
	l.Debug("configuration loaded",
		"llm_provider", cfg.LLM.Provider,
		"worker_count", cfg.Rewrite.WorkerCount,
		"database_url_present", cfg.Database.URL != "")
	return nil
}

// fail reports a setup error before the structured logger exists.
func (c *cli) fail(err error) error {
	_, _ = fmt.Fprintln(c.logOutput, "rewriter:", err)
	return err
}
