// Command browseby serves the SLiMS browse pages and manages their cache.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/erwansetyobudi/browseby/internal/config"
	"github.com/erwansetyobudi/browseby/internal/logging"
	"github.com/erwansetyobudi/browseby/pkg/di"
)

// app carries what every subcommand shares once the root command has run
// its setup.
type app struct {
	envFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "browseby",
		Short: "Browse a SLiMS catalog by author, year, topic, GMD and collection type",
		Long: `browseby serves the five "Browse by" OPAC pages straight from the SLiMS
database and keeps every query result in a file cache shared between
processes.

Configuration comes from BROWSEBY_* environment variables, optionally
loaded from an env file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "env file to load before reading BROWSEBY_* variables")

	root.AddCommand(newServeCmd(a), newPurgeCmd(a), newWarmCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.With().Str("command", cmd.Name()).Logger()
	a.closeLog = closeLog
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// container opens the catalog database and builds the cached catalog.
func (a *app) container() (*di.Container, error) {
	return di.NewContainer(a.cfg, a.logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
