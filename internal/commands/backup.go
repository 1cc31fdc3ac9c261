package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/backup"
)

func newBackupCommand(a *app) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a full JSON backup",
	}
	backupCmd.AddCommand(newBackupExportCommand(a), newBackupImportCommand(a))
	return backupCmd
}

func newBackupExportCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every month to a dated JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupExport(cmd, a, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output directory (default <dir>/exports)")

	return cmd
}

func runBackupExport(cmd *cobra.Command, a *app, out string) error {
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	path, err := backup.Export(a.outDir(out), a.cfg.Export.BackupPrefix, a.now(), svc.Store())
	if err != nil {
		return err
	}

	a.log.Info().Str("op", "backup").Int("months", len(svc.Store())).Str("path", path).Msg("backup exported")
	fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
	return nil
}

func newBackupImportCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupImport(cmd, a, args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func runBackupImport(cmd *cobra.Command, a *app, path string, yes bool) error {
	store, err := backup.ReadFile(path)
	if err != nil {
		var fe backup.FormatError
		if errors.As(err, &fe) {
			a.log.Debug().Err(err).Str("path", path).Msg("backup rejected")
			return errors.New("could not read backup file: it is not a valid treasury backup")
		}
		return err
	}

	svc, closeSlot, err := a.openForOverwrite(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	if !yes {
		ok, err := confirm(cmd, fmt.Sprintf("Replace all current data with %d months from %s?", len(store), path))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := settle(cmd, svc.Replace(cmd.Context(), store)); err != nil {
		return err
	}
	months := store.Months()
	if len(months) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Imported an empty backup")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d months (%s to %s)\n", len(months), months[0], months[len(months)-1])
	return nil
}
