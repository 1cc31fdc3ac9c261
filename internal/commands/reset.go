package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every month and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, a, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func runReset(cmd *cobra.Command, a *app, yes bool) error {
	svc, closeSlot, err := a.openForOverwrite(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()

	if !yes {
		ok, err := confirm(cmd, "Delete ALL data? This cannot be undone.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := settle(cmd, svc.Reset(cmd.Context())); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
	return nil
}
