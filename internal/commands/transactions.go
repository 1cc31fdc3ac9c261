package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/ledger"
	"github.com/treasury-ledger/treasury/internal/model"
)

func newAddCommand(a *app) *cobra.Command {
	var amount, description, category string

	cmd := &cobra.Command{
		Use:       "add income|expense",
		Short:     "Record an income or expense in the selected month",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.KindIncome), string(model.KindExpense)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			amt, err := parseAmount(amount)
			if err != nil {
				return err
			}
			return runAdd(cmd, a, kind, ledger.Params{Amount: amt, Description: description, Category: category})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 125.50 (required)")
	cmd.Flags().StringVar(&description, "description", "", "description (required)")
	cmd.Flags().StringVar(&category, "category", "", "category (default: first of the kind)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func runAdd(cmd *cobra.Command, a *app, kind model.Kind, p ledger.Params) error {
	key, err := a.monthKey()
	if err != nil {
		return err
	}
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	tx, err := svc.Add(cmd.Context(), key, kind, p)
	if err := settle(cmd, err); err != nil {
		return err
	}

	labels := a.cfg.Labels()
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %d: %s %s - %s (%s)\n",
		tx.Kind, tx.ID, labels.Money(tx.Amount), tx.Category, tx.Description, tx.Date)
	return nil
}

func newEditCommand(a *app) *cobra.Command {
	var amount, description, category string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change amount, description or category of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runEdit(cmd, a, txID, amount, description, category)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&category, "category", "", "new category")

	return cmd
}

func runEdit(cmd *cobra.Command, a *app, txID int64, amount, description, category string) error {
	key, err := a.monthKey()
	if err != nil {
		return err
	}
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	existing, ok := svc.Find(key, txID)
	if !ok {
		return ledger.NotFoundError{Month: key, ID: txID}
	}

	// Unset flags keep the current values.
	p := ledger.Params{Amount: existing.Amount, Description: existing.Description, Category: existing.Category}
	if cmd.Flags().Changed("amount") {
		if p.Amount, err = parseAmount(amount); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("description") {
		p.Description = description
	}
	if cmd.Flags().Changed("category") {
		p.Category = category
	}

	tx, err := svc.Edit(cmd.Context(), key, txID, p)
	if err := settle(cmd, err); err != nil {
		return err
	}

	labels := a.cfg.Labels()
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d: %s %s - %s\n",
		tx.Kind, tx.ID, labels.Money(tx.Amount), tx.Category, tx.Description)
	return nil
}

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction from the selected month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runDelete(cmd, a, txID, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, a *app, txID int64, yes bool) error {
	key, err := a.monthKey()
	if err != nil {
		return err
	}
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	tx, ok := svc.Find(key, txID)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "No transaction %d in %s, nothing deleted\n", txID, key)
		return nil
	}

	if !yes {
		labels := a.cfg.Labels()
		ok, err := confirm(cmd, fmt.Sprintf("Delete %s %d (%s %s)?", tx.Kind, tx.ID, labels.Money(tx.Amount), tx.Description))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	_, err = svc.Delete(cmd.Context(), key, txID)
	if err := settle(cmd, err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", tx.Kind, tx.ID)
	return nil
}
