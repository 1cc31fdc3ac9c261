package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/model"
)

func newCategoriesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List income and expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := a.catalog()
			out := cmd.OutOrStdout()
			for _, kind := range []model.Kind{model.KindIncome, model.KindExpense} {
				fmt.Fprintf(out, "%s:\n", kind)
				def := cat.Default(kind)
				for _, name := range cat.All(kind) {
					if name == def {
						fmt.Fprintf(out, "  %s (default)\n", name)
						continue
					}
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}
}
