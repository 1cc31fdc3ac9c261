package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/treasury-ledger/treasury/internal/auditlog"
	"github.com/treasury-ledger/treasury/internal/categories"
	"github.com/treasury-ledger/treasury/internal/config"
	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/ledger"
	"github.com/treasury-ledger/treasury/internal/model"
	"github.com/treasury-ledger/treasury/internal/slot"
)

// exportDir is where reports and backups go unless --out is given.
const exportDir = "exports"

// app is the state shared by every command of one invocation.
type app struct {
	now func() time.Time

	dir        string
	configPath string
	year       int
	month      int

	cfg *config.Config
	log zerolog.Logger
}

// monthKey resolves --year and --month, defaulting to the current month.
func (a *app) monthKey() (id.MonthKey, error) {
	today := id.MonthKeyOf(a.now())
	year, month := a.year, a.month
	if year == 0 {
		year = today.Year
	}
	if month == 0 {
		month = today.Month + 1
	}
	if month < 1 || month > 12 {
		return id.MonthKey{}, fmt.Errorf("--month must be between 1 and 12, got %d", month)
	}
	return id.NewMonthKey(year, month-1), nil
}

func (a *app) catalog() *categories.Service {
	return categories.NewService(map[model.Kind][]string{
		model.KindIncome:  a.cfg.Categories.Income,
		model.KindExpense: a.cfg.Categories.Expense,
	})
}

// openLedger opens the configured slot and loads the ledger from it. The
// returned func closes the slot.
func (a *app) openLedger(ctx context.Context) (*ledger.Service, func(), error) {
	return a.open(ctx, true)
}

// openForOverwrite opens the slot without reading it, for commands that replace
// or clear everything. Unreadable stored data does not stop them.
func (a *app) openForOverwrite(ctx context.Context) (*ledger.Service, func(), error) {
	return a.open(ctx, false)
}

func (a *app) open(ctx context.Context, load bool) (*ledger.Service, func(), error) {
	s, err := slot.Open(ctx, a.cfg.Storage.Backend, a.dir, a.cfg.Storage.Slot)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	a.log.Debug().Str("slot", s.Location()).Msg("storage opened")

	opts := ledger.Options{
		Slot:       s,
		Catalog:    a.catalog(),
		Recorder:   auditlog.New(a.dir),
		Clock:      a.now,
		DateLayout: a.cfg.Format.DateLayout,
		Logger:     a.log,
	}
	if !load {
		return ledger.OpenEmpty(opts), func() { _ = s.Close() }, nil
	}

	svc, err := ledger.Open(ctx, opts)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}
	return svc, func() { _ = s.Close() }, nil
}

func (a *app) outDir(out string) string {
	if out != "" {
		return out
	}
	return filepath.Join(a.dir, exportDir)
}

// settle turns a SaveWarning into a printed warning so the command still succeeds.
func settle(cmd *cobra.Command, err error) error {
	var warn ledger.SaveWarning
	if errors.As(err, &warn) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	return err
}

// confirm asks a yes/no question on the command's input. Anything but yes is no.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	}
	return false, nil
}

func parseID(s string) (int64, error) {
	txID, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return txID, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, ledger.ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return amount, nil
}

func parseKind(s string) (model.Kind, error) {
	kind := model.Kind(strings.ToLower(s))
	if !kind.Valid() {
		return "", fmt.Errorf("kind must be income or expense, got %q", s)
	}
	return kind, nil
}
