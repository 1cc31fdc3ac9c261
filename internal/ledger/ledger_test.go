package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func params(amount, description, category string) Params {
	return Params{Amount: dec(amount), Description: description, Category: category}
}

var (
	jan = id.NewMonthKey(2025, 0)
	feb = id.NewMonthKey(2025, 1)
	mar = id.NewMonthKey(2025, 2)
)

// stamper hands out increasing stamps for tests.
type stamper struct{ next int64 }

func (s *stamper) stamp() Stamp {
	s.next++
	return Stamp{ID: 1000 + s.next, Date: "15/1/2025"}
}

func mustAdd(t *testing.T, s model.Store, key id.MonthKey, kind model.Kind, p Params, st *stamper) (model.Store, model.Transaction) {
	t.Helper()
	out, tx, err := AddTransaction(s, key, kind, p, st.stamp())
	require.NoError(t, err)
	return out, tx
}

func TestPreviousMonthKey(t *testing.T) {
	assert.Equal(t, id.NewMonthKey(2024, 11), PreviousMonthKey(jan))
	assert.Equal(t, jan, PreviousMonthKey(feb))
	assert.Equal(t, feb, NextMonthKey(jan))
	assert.Equal(t, id.NewMonthKey(2026, 0), NextMonthKey(id.NewMonthKey(2025, 11)))
}

func TestMonthTotalsAndEndingBalance(t *testing.T) {
	rec := model.MonthRecord{
		Incomes: []model.Transaction{
			{ID: 1, Amount: dec("100")},
			{ID: 2, Amount: dec("50.25")},
		},
		Expenses: []model.Transaction{
			{ID: 3, Amount: dec("30.10")},
		},
		InitialBalance: dec("20"),
	}

	totals := MonthTotals(rec)
	assert.True(t, totals.TotalIncome.Equal(dec("150.25")))
	assert.True(t, totals.TotalExpenses.Equal(dec("30.10")))
	assert.True(t, EndingBalance(rec).Equal(dec("140.15")), "20 + 150.25 - 30.10")
}

func TestMonthTotals_Empty(t *testing.T) {
	totals := MonthTotals(model.MonthRecord{})
	assert.True(t, totals.TotalIncome.IsZero())
	assert.True(t, totals.TotalExpenses.IsZero())
	assert.True(t, EndingBalance(model.MonthRecord{}).IsZero())
}

func TestPreviousBalance_NoPriorRecord(t *testing.T) {
	assert.True(t, PreviousBalance(model.Store{}, feb).IsZero())
}

func TestPreviousBalance_OneMonthLookback(t *testing.T) {
	st := &stamper{}
	s, _ := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)

	// February is empty, so March sees zero even though January has money.
	assert.True(t, PreviousBalance(s, feb).Equal(dec("100")))
	assert.True(t, PreviousBalance(s, mar).IsZero())
}

func TestPreviousBalance_YearRollover(t *testing.T) {
	st := &stamper{}
	dec2024 := id.NewMonthKey(2024, 11)
	s, _ := mustAdd(t, model.Store{}, dec2024, model.KindIncome, params("75", "Year end", "Ofrendas"), st)

	assert.True(t, PreviousBalance(s, jan).Equal(dec("75")))
}

func TestInitializeMonth(t *testing.T) {
	st := &stamper{}
	s, _ := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)
	s, _ = mustAdd(t, s, jan, model.KindExpense, params("30", "Snacks", "Alimentos"), st)

	out := InitializeMonth(s, feb)
	rec, ok := out[feb]
	require.True(t, ok)
	assert.True(t, rec.InitialBalance.Equal(dec("70")))
	assert.Empty(t, rec.Incomes)
	assert.Empty(t, rec.Expenses)

	_, inOriginal := s[feb]
	assert.False(t, inOriginal, "input store must not be modified")
}

func TestInitializeMonth_ExistingIsNoop(t *testing.T) {
	s := model.Store{feb: {InitialBalance: dec("5")}}
	out := InitializeMonth(s, feb)
	assert.True(t, out[feb].InitialBalance.Equal(dec("5")))
	assert.Len(t, out, 1)
}

func TestAddTransaction_GrowsOneSequence(t *testing.T) {
	st := &stamper{}
	s, _ := mustAdd(t, model.Store{}, jan, model.KindIncome, params("10", "a", "Ofrendas"), st)
	s, _ = mustAdd(t, s, feb, model.KindExpense, params("5", "b", "Material"), st)

	out, tx := mustAdd(t, s, jan, model.KindExpense, params("3", "c", "Material"), st)

	assert.Len(t, out[jan].Expenses, len(s[jan].Expenses)+1)
	assert.Len(t, out[jan].Incomes, len(s[jan].Incomes))
	assert.True(t, out[feb].Equal(s[feb]), "other months untouched")
	assert.Equal(t, model.KindExpense, tx.Kind)

	// The input store is not mutated.
	assert.Empty(t, s[jan].Expenses)
}

func TestAddTransaction_FieldsAndTrim(t *testing.T) {
	out, tx, err := AddTransaction(model.Store{}, jan, model.KindIncome, params("100", "  Offering  ", "Ofrendas"), Stamp{ID: 42, Date: "15/1/2025"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), tx.ID)
	assert.Equal(t, "15/1/2025", tx.Date)
	assert.Equal(t, "Offering", tx.Description)
	assert.Equal(t, "Ofrendas", tx.Category)
	require.Len(t, out[jan].Incomes, 1)
	assert.True(t, out[jan].Incomes[0].Equal(tx))
}

func TestAddTransaction_Validation(t *testing.T) {
	tests := []struct {
		name  string
		kind  model.Kind
		p     Params
		field string
	}{
		{"zero amount", model.KindIncome, params("0", "x", "Otros"), "amount"},
		{"negative amount", model.KindExpense, params("-5", "x", "Otros"), "amount"},
		{"empty description", model.KindIncome, params("5", "", "Otros"), "description"},
		{"blank description", model.KindIncome, params("5", "   \t", "Otros"), "description"},
		{"bad kind", model.Kind("transfer"), params("5", "x", "Otros"), "kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.Store{}
			out, _, err := AddTransaction(s, jan, tt.kind, tt.p, Stamp{ID: 1})
			require.Error(t, err)

			var ve ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, out, "nothing is created on a rejected add")
		})
	}
}

func TestAddTransaction_KeepsFullPrecision(t *testing.T) {
	out, tx, err := AddTransaction(model.Store{}, jan, model.KindIncome, params("1.005", "x", "Otros"), Stamp{ID: 1})
	require.NoError(t, err)
	require.Len(t, out[jan].Incomes, 1)
	assert.True(t, tx.Amount.Equal(dec("1.005")))
	assert.True(t, MonthSummary(out, jan).CurrentBalance.Equal(dec("1.005")))
}

func TestRollover_SnapshotOnlyOnFirstInit(t *testing.T) {
	st := &stamper{}
	s, _ := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)
	s, _ = mustAdd(t, s, jan, model.KindIncome, params("50", "Sale", "Ventas"), st)
	s, janExpense := mustAdd(t, s, jan, model.KindExpense, params("30", "Bus", "Transporte"), st)

	// B + I - E = 0 + 150 - 30
	assert.True(t, EndingBalance(s[jan]).Equal(dec("120")))

	s, _ = mustAdd(t, s, feb, model.KindExpense, params("20", "Paper", "Material"), st)
	assert.True(t, s[feb].InitialBalance.Equal(dec("120")))

	// Later edits to January do not flow into February's snapshot.
	s, _, err := EditTransaction(s, jan, janExpense.ID, params("80", "Bus", "Transporte"))
	require.NoError(t, err)
	s, _ = mustAdd(t, s, feb, model.KindIncome, params("1", "Coin", "Otros"), st)

	assert.True(t, EndingBalance(s[jan]).Equal(dec("70")))
	assert.True(t, s[feb].InitialBalance.Equal(dec("120")), "snapshot is not recomputed")
}

func TestScenario_FirstIncome(t *testing.T) {
	s, _, err := AddTransaction(model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), Stamp{ID: 1})
	require.NoError(t, err)

	sum := MonthSummary(s, jan)
	assert.True(t, sum.TotalIncome.Equal(dec("100")))
	assert.True(t, sum.TotalExpenses.IsZero())
	assert.True(t, sum.PreviousBalance.IsZero())
	assert.True(t, sum.CurrentBalance.Equal(dec("100")))
}

func TestScenario_NextMonthSnapshot(t *testing.T) {
	s, _, err := AddTransaction(model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), Stamp{ID: 1})
	require.NoError(t, err)
	require.True(t, EndingBalance(s[jan]).Equal(dec("100")))

	s, _, err = AddTransaction(s, feb, model.KindExpense, params("10", "Snacks", "Alimentos"), Stamp{ID: 2})
	require.NoError(t, err)
	assert.True(t, s[feb].InitialBalance.Equal(dec("100")))

	sum := MonthSummary(s, feb)
	assert.True(t, sum.PreviousBalance.Equal(dec("100")))
	assert.True(t, sum.CurrentBalance.Equal(dec("90")))
}

func TestMonthSummary_UsesLivePreviousBalance(t *testing.T) {
	st := &stamper{}
	s, janIncome := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)
	s, _ = mustAdd(t, s, feb, model.KindIncome, params("10", "Sale", "Ventas"), st)

	s, _, err := EditTransaction(s, jan, janIncome.ID, params("40", "Offering", "Ofrendas"))
	require.NoError(t, err)

	sum := MonthSummary(s, feb)
	assert.True(t, sum.PreviousBalance.Equal(dec("40")))
	assert.True(t, sum.CurrentBalance.Equal(dec("50")))
	assert.True(t, s[feb].InitialBalance.Equal(dec("100")), "snapshot still holds the old value")
}

func TestEditTransaction_PreservesIdentity(t *testing.T) {
	st := &stamper{}
	s, income := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)
	s, expense := mustAdd(t, s, jan, model.KindExpense, params("30", "Bus", "Transporte"), st)

	out, got, err := EditTransaction(s, jan, expense.ID, params("35.50", " Taxi ", "Actividades"))
	require.NoError(t, err)

	assert.Equal(t, expense.ID, got.ID)
	assert.Equal(t, expense.Date, got.Date)
	assert.Equal(t, model.KindExpense, got.Kind)
	assert.True(t, got.Amount.Equal(dec("35.50")))
	assert.Equal(t, "Taxi", got.Description)
	assert.Equal(t, "Actividades", got.Category)

	require.Len(t, out[jan].Expenses, 1)
	require.Len(t, out[jan].Incomes, 1)
	assert.True(t, out[jan].Expenses[0].Equal(got))
	assert.True(t, out[jan].Incomes[0].Equal(income))

	// Input untouched.
	assert.Equal(t, "Bus", s[jan].Expenses[0].Description)
}

func TestEditTransaction_NotFound(t *testing.T) {
	st := &stamper{}
	s, _ := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)

	_, _, err := EditTransaction(s, jan, 999, params("1", "x", "Otros"))
	var nf NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(999), nf.ID)
	assert.Equal(t, jan, nf.Month)

	_, _, err = EditTransaction(s, feb, 999, params("1", "x", "Otros"))
	assert.True(t, errors.As(err, &nf), "missing month is also not found")
}

func TestEditTransaction_Validation(t *testing.T) {
	st := &stamper{}
	s, tx := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)

	out, _, err := EditTransaction(s, jan, tx.ID, params("0", "Offering", "Ofrendas"))
	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, out[jan].Incomes[0].Amount.Equal(dec("100")))
}

func TestDeleteTransaction(t *testing.T) {
	st := &stamper{}
	s, income := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)
	s, expense := mustAdd(t, s, jan, model.KindExpense, params("30", "Bus", "Transporte"), st)

	out, removed := DeleteTransaction(s, jan, expense.ID)
	assert.True(t, removed)
	assert.Empty(t, out[jan].Expenses)
	require.Len(t, out[jan].Incomes, 1)
	assert.Equal(t, income.ID, out[jan].Incomes[0].ID)
	assert.Len(t, s[jan].Expenses, 1, "input untouched")
}

func TestDeleteTransaction_UnknownIsNoop(t *testing.T) {
	st := &stamper{}
	s, _ := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Offering", "Ofrendas"), st)

	out, removed := DeleteTransaction(s, jan, 12345)
	assert.False(t, removed)
	assert.True(t, out.Equal(s))

	out, removed = DeleteTransaction(s, mar, 12345)
	assert.False(t, removed)
	assert.True(t, out.Equal(s))
	_, created := out[mar]
	assert.False(t, created, "no month is created by a no-op delete")
}

func TestListTransactions(t *testing.T) {
	st := &stamper{}
	s, a := mustAdd(t, model.Store{}, jan, model.KindIncome, params("100", "Sunday offering", "Ofrendas"), st)
	s, b := mustAdd(t, s, jan, model.KindExpense, params("30", "Bus to camp", "Transporte"), st)
	s, c := mustAdd(t, s, jan, model.KindIncome, params("20", "Cake sale", "Ventas"), st)

	all := ListTransactions(s, jan, Filter{})
	require.Len(t, all, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, model.KindExpense, all[1].Kind)

	byDesc := ListTransactions(s, jan, Filter{Text: "OFFERING"})
	require.Len(t, byDesc, 1)
	assert.Equal(t, a.ID, byDesc[0].ID)

	byCat := ListTransactions(s, jan, Filter{Text: "transp"})
	require.Len(t, byCat, 1)
	assert.Equal(t, b.ID, byCat[0].ID)

	limited := ListTransactions(s, jan, Filter{Limit: 2})
	assert.Len(t, limited, 2)
	assert.Equal(t, c.ID, limited[0].ID)

	assert.Empty(t, ListTransactions(s, feb, Filter{}))
	assert.Empty(t, ListTransactions(s, jan, Filter{Text: "nothing matches"}))
}

func TestListTransactions_UnicodeFold(t *testing.T) {
	st := &stamper{}
	s, tx := mustAdd(t, model.Store{}, jan, model.KindExpense, params("15", "CAFÉ para reunión", "Alimentos"), st)

	got := ListTransactions(s, jan, Filter{Text: "café"})
	require.Len(t, got, 1)
	assert.Equal(t, tx.ID, got[0].ID)
}
