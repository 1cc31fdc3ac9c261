package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/ledger"
	"github.com/treasury-ledger/treasury/internal/model"
	"github.com/treasury-ledger/treasury/internal/report"
)

// recentCount is how many transactions the summary shows.
const recentCount = 5

func newListCommand(a *app) *cobra.Command {
	var f ledger.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the selected month's transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, a, f)
		},
	}

	cmd.Flags().StringVar(&f.Text, "search", "", "only show transactions whose description or category contains this text")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "show at most this many (0 for all)")

	return cmd
}

func runList(cmd *cobra.Command, a *app, f ledger.Filter) error {
	key, err := a.monthKey()
	if err != nil {
		return err
	}
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	labels := a.cfg.Labels()
	txs := svc.List(key, f)
	if len(txs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No transactions in %s\n", period(labels, key))
		return nil
	}
	printTransactions(cmd.OutOrStdout(), labels, txs)
	return nil
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the selected month's balances and most recent transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, a)
		},
	}
}

func runSummary(cmd *cobra.Command, a *app) error {
	key, err := a.monthKey()
	if err != nil {
		return err
	}
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	out := cmd.OutOrStdout()
	labels := a.cfg.Labels()
	sum := svc.Summary(key)

	if a.cfg.Organization.Name != "" {
		fmt.Fprintln(out, a.cfg.Organization.Name)
	}
	fmt.Fprintln(out, period(labels, key))
	fmt.Fprintf(out, "  %-16s %12s\n", labels.PreviousBalance, labels.Money(sum.PreviousBalance))
	fmt.Fprintf(out, "  %-16s %12s\n", labels.TotalIncome, labels.Money(sum.TotalIncome))
	fmt.Fprintf(out, "  %-16s %12s\n", labels.TotalExpenses, labels.Money(sum.TotalExpenses))
	fmt.Fprintf(out, "  %-16s %12s\n", labels.CurrentBalance, labels.Money(sum.CurrentBalance))

	recent := svc.List(key, ledger.Filter{Limit: recentCount})
	if len(recent) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	printTransactions(out, labels, recent)
	return nil
}

func period(labels report.Labels, key id.MonthKey) string {
	return fmt.Sprintf("%s %d", labels.MonthName(key), key.Year)
}

func printTransactions(w io.Writer, labels report.Labels, txs []model.Transaction) {
	fmt.Fprintf(w, "%-14s %-10s %-8s %-14s %12s  %s\n", "ID", "DATE", "KIND", "CATEGORY", "AMOUNT", "DESCRIPTION")
	for _, tx := range txs {
		amount := labels.Money(tx.Amount)
		if tx.Kind.Sign() < 0 {
			amount = "-" + amount
		}
		fmt.Fprintf(w, "%-14d %-10s %-8s %-14s %12s  %s\n", tx.ID, tx.Date, tx.Kind, tx.Category, amount, tx.Description)
	}
}
