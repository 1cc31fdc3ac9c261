package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/auditlog"
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the audit log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, a, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "show at most this many entries (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, a *app, limit int) error {
	entries, err := auditlog.Read(a.dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history yet")
		return nil
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	fmt.Fprintf(out, "%-19s %-7s %-8s %-14s %s\n", "TIME", "ACTION", "MONTH", "ID", "DETAILS")
	for _, e := range entries {
		txID := ""
		if e.TransactionID != 0 {
			txID = fmt.Sprint(e.TransactionID)
		}
		fmt.Fprintf(out, "%-19s %-7s %-8s %-14s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Month, txID, e.Details)
	}
	return nil
}
