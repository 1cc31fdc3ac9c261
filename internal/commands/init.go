package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/config"
)

func newInitCommand(a *app) *cobra.Command {
	var name string
	var backend string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new treasury ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.dir
			if len(args) > 0 {
				absDir, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				dir = absDir
			}
			return runInit(cmd, a, dir, name, backend)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", "", "storage backend: file or sqlite")

	return cmd
}

func runInit(cmd *cobra.Command, a *app, dir, name, backend string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	// Create directory structure.
	for _, d := range []string{"logs", exportDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write treasury.yaml.
	cfg := config.Default(name)
	cfg.Storage = a.cfg.Storage
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := exportDir + "/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write the empty ledger.
	a.dir, a.cfg = dir, cfg
	svc, closeSlot, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSlot()
	if err := svc.Save(cmd.Context()); err != nil {
		return fmt.Errorf("writing empty ledger: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized treasury ledger for %s at %s (%s storage)\n", name, dir, cfg.Storage.Backend)
	return nil
}
