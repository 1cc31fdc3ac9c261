// Package ledger implements the month ledger: balance rollover between months
// and copy-on-write mutators over a model.Store.
//
// Mutators never modify the store they are given. They return a new Store that
// shares untouched months with the input.
package ledger

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/model"
)

// Stamp is the identity given to a new transaction.
type Stamp struct {
	ID   int64
	Date string
}

// PreviousMonthKey returns the month before key.
func PreviousMonthKey(key id.MonthKey) id.MonthKey {
	return key.Previous()
}

// NextMonthKey returns the month after key.
func NextMonthKey(key id.MonthKey) id.MonthKey {
	return key.Next()
}

// MonthTotals sums the incomes and expenses of a record.
func MonthTotals(r model.MonthRecord) model.Totals {
	return model.Totals{
		TotalIncome:   sum(r.Incomes),
		TotalExpenses: sum(r.Expenses),
	}
}

func sum(txs []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total
}

// EndingBalance is initialBalance + income - expenses.
func EndingBalance(r model.MonthRecord) decimal.Decimal {
	t := MonthTotals(r)
	return r.InitialBalance.Add(t.TotalIncome).Sub(t.TotalExpenses)
}

// PreviousBalance returns the ending balance of the month immediately before key,
// or zero when that month has no record. It looks back exactly one month: an
// empty previous month hides any earlier history.
func PreviousBalance(s model.Store, key id.MonthKey) decimal.Decimal {
	prev, ok := s[key.Previous()]
	if !ok {
		return decimal.Zero
	}
	return EndingBalance(prev)
}

// InitializeMonth ensures key has a record, snapshotting PreviousBalance as its
// initial balance. When the record already exists s is returned as is.
func InitializeMonth(s model.Store, key id.MonthKey) model.Store {
	if _, ok := s[key]; ok {
		return s
	}
	out := s.Clone()
	out[key] = model.MonthRecord{
		Incomes:        []model.Transaction{},
		Expenses:       []model.Transaction{},
		InitialBalance: PreviousBalance(s, key),
	}
	return out
}

// AddTransaction validates p and appends a new transaction of kind to key's month.
func AddTransaction(s model.Store, key id.MonthKey, kind model.Kind, p Params, stamp Stamp) (model.Store, model.Transaction, error) {
	if err := Validate(kind, p, nil); err != nil {
		return s, model.Transaction{}, err
	}

	out := InitializeMonth(s, key)
	if _, existed := s[key]; existed {
		out = s.Clone()
	}

	tx := model.Transaction{
		ID:          stamp.ID,
		Kind:        kind,
		Amount:      p.Amount,
		Description: strings.TrimSpace(p.Description),
		Category:    p.Category,
		Date:        stamp.Date,
	}

	rec := out[key].Clone()
	if kind == model.KindIncome {
		rec.Incomes = append(rec.Incomes, tx)
	} else {
		rec.Expenses = append(rec.Expenses, tx)
	}
	out[key] = rec
	return out, tx, nil
}

// FindTransaction looks up a transaction by ID within key's month.
func FindTransaction(s model.Store, key id.MonthKey, txID int64) (model.Transaction, bool) {
	rec, ok := s[key]
	if !ok {
		return model.Transaction{}, false
	}
	for _, kind := range []model.Kind{model.KindIncome, model.KindExpense} {
		seq := rec.Sequence(kind)
		if i := indexOf(seq, txID); i >= 0 {
			return seq[i], true
		}
	}
	return model.Transaction{}, false
}

// EditTransaction replaces amount, description and category of a transaction.
// ID, date and the sequence it belongs to are kept.
func EditTransaction(s model.Store, key id.MonthKey, txID int64, p Params) (model.Store, model.Transaction, error) {
	existing, ok := FindTransaction(s, key, txID)
	if !ok {
		return s, model.Transaction{}, NotFoundError{Month: key, ID: txID}
	}
	if err := Validate(existing.Kind, p, nil); err != nil {
		return s, model.Transaction{}, err
	}

	updated := existing
	updated.Amount = p.Amount
	updated.Description = strings.TrimSpace(p.Description)
	updated.Category = p.Category

	rec := s[key].Clone()
	if i := indexOf(rec.Incomes, txID); i >= 0 {
		updated.Kind = model.KindIncome
		rec.Incomes[i] = updated
	} else {
		i = indexOf(rec.Expenses, txID)
		updated.Kind = model.KindExpense
		rec.Expenses[i] = updated
	}

	out := s.Clone()
	out[key] = rec
	return out, updated, nil
}

// DeleteTransaction removes a transaction from key's month. Deleting an unknown
// ID is a no-op that returns s unchanged and false.
func DeleteTransaction(s model.Store, key id.MonthKey, txID int64) (model.Store, bool) {
	if _, ok := FindTransaction(s, key, txID); !ok {
		return s, false
	}

	rec := s[key].Clone()
	rec.Incomes = slices.DeleteFunc(rec.Incomes, func(t model.Transaction) bool { return t.ID == txID })
	rec.Expenses = slices.DeleteFunc(rec.Expenses, func(t model.Transaction) bool { return t.ID == txID })

	out := s.Clone()
	out[key] = rec
	return out, true
}

func indexOf(txs []model.Transaction, txID int64) int {
	return slices.IndexFunc(txs, func(t model.Transaction) bool { return t.ID == txID })
}

// Filter narrows ListTransactions.
type Filter struct {
	Text  string // case-insensitive substring of description or category
	Limit int    // 0 = no limit
}

// ListTransactions returns the month's incomes and expenses, most recent first.
func ListTransactions(s model.Store, key id.MonthKey, f Filter) []model.Transaction {
	rec := s[key]
	all := make([]model.Transaction, 0, rec.Len())
	all = append(all, rec.Incomes...)
	all = append(all, rec.Expenses...)

	if f.Text != "" {
		fold := cases.Fold()
		needle := fold.String(f.Text)
		all = slices.DeleteFunc(all, func(t model.Transaction) bool {
			return !strings.Contains(fold.String(t.Description), needle) &&
				!strings.Contains(fold.String(t.Category), needle)
		})
	}

	slices.SortStableFunc(all, func(a, b model.Transaction) int {
		return cmp.Compare(b.ID, a.ID)
	})

	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all
}

// MonthSummary returns the dashboard totals of key's month. The previous balance
// is looked up live from the prior month rather than read from the snapshot.
func MonthSummary(s model.Store, key id.MonthKey) model.Summary {
	totals := MonthTotals(s[key])
	prev := PreviousBalance(s, key)
	return model.Summary{
		TotalIncome:     totals.TotalIncome,
		TotalExpenses:   totals.TotalExpenses,
		PreviousBalance: prev,
		CurrentBalance:  prev.Add(totals.TotalIncome).Sub(totals.TotalExpenses),
	}
}
