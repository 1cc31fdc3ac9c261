package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the selected month's financial report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, a, format, out)
		},
	}

	cmd.Flags().StringVar(&format, "format", "xlsx", "report format: xlsx or csv")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default <dir>/exports)")

	return cmd
}

func runReport(cmd *cobra.Command, a *app, format, out string) error {
	key, err := a.monthKey()
	if err != nil {
		return err
	}
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	rep := report.Build(svc.Store(), key, a.cfg.Labels())
	path, err := report.DefaultRegistry().Export(a.outDir(out), format, rep)
	if err != nil {
		return err
	}

	a.log.Info().Str("op", "report").Str("month", key.String()).Str("path", path).Msg("report exported")
	fmt.Fprintf(cmd.OutOrStdout(), "Report for %s written to %s\n", rep.Period(), path)
	return nil
}
