package commands

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/buildinfo"
	"github.com/treasury-ledger/treasury/internal/config"
	"github.com/treasury-ledger/treasury/internal/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	a := &app{now: now}

	rootCmd := &cobra.Command{
		Use:     "treasury",
		Short:   "Monthly income and expense ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.dir, "dir", ".", "data directory")
	flags.StringVar(&a.configPath, "config", "", "config file (default <dir>/"+config.FileName+")")
	flags.IntVar(&a.year, "year", 0, "year (default current)")
	flags.IntVar(&a.month, "month", 0, "month 1-12 (default current)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newAddCommand(a),
		newEditCommand(a),
		newDeleteCommand(a),
		newListCommand(a),
		newSummaryCommand(a),
		newReportCommand(a),
		newBackupCommand(a),
		newResetCommand(a),
		newCategoriesCommand(a),
		newHistoryCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	absDir, err := filepath.Abs(a.dir)
	if err != nil {
		return err
	}
	a.dir = absDir

	if err := config.LoadDotEnv(a.dir); err != nil {
		return err
	}

	path := a.configPath
	if path == "" {
		path = filepath.Join(a.dir, config.FileName)
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = logger
	return nil
}
