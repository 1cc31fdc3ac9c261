package model

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/treasury-ledger/treasury/internal/id"
)

// MonthRecord holds one month's transactions and its opening balance.
// InitialBalance is a snapshot taken when the record was created and is never recomputed.
type MonthRecord struct {
	Incomes        []Transaction
	Expenses       []Transaction
	InitialBalance decimal.Decimal
}

// Sequence returns the slice holding transactions of kind k.
func (r MonthRecord) Sequence(k Kind) []Transaction {
	if k == KindExpense {
		return r.Expenses
	}
	return r.Incomes
}

// Clone returns a copy whose slices can be modified without touching r.
func (r MonthRecord) Clone() MonthRecord {
	return MonthRecord{
		Incomes:        append([]Transaction(nil), r.Incomes...),
		Expenses:       append([]Transaction(nil), r.Expenses...),
		InitialBalance: r.InitialBalance,
	}
}

// Len returns the number of transactions in the month.
func (r MonthRecord) Len() int {
	return len(r.Incomes) + len(r.Expenses)
}

// Equal compares records by value. Nil and empty sequences are equal.
func (r MonthRecord) Equal(o MonthRecord) bool {
	if !r.InitialBalance.Equal(o.InitialBalance) {
		return false
	}
	return equalSeq(r.Incomes, o.Incomes) && equalSeq(r.Expenses, o.Expenses)
}

func equalSeq(a, b []Transaction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Store maps month keys to their records.
type Store map[id.MonthKey]MonthRecord

// Clone returns a shallow copy of the map. Records are values, but their slices
// are shared; use MonthRecord.Clone before modifying one.
func (s Store) Clone() Store {
	out := make(Store, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports structural equality over all months and transactions.
func (s Store) Equal(o Store) bool {
	if len(s) != len(o) {
		return false
	}
	for k, r := range s {
		other, ok := o[k]
		if !ok || !r.Equal(other) {
			return false
		}
	}
	return true
}

// Months returns the store's keys, oldest first.
func (s Store) Months() []id.MonthKey {
	keys := make([]id.MonthKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b id.MonthKey) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	return keys
}

// MaxID returns the highest transaction ID in the store, or 0 when empty.
func (s Store) MaxID() int64 {
	var maxID int64
	for _, r := range s {
		for _, t := range r.Incomes {
			maxID = max(maxID, t.ID)
		}
		for _, t := range r.Expenses {
			maxID = max(maxID, t.ID)
		}
	}
	return maxID
}

// Totals are the summed amounts of one month.
type Totals struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
}

// Summary is the dashboard view of one month.
type Summary struct {
	TotalIncome     decimal.Decimal
	TotalExpenses   decimal.Decimal
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
}
