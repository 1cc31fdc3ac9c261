package model

import (
	"github.com/shopspring/decimal"
)

// Kind says which side of the ledger a transaction sits on.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Sign returns +1 for income and -1 for expense.
func (k Kind) Sign() int {
	if k == KindExpense {
		return -1
	}
	return 1
}

// Transaction is one recorded income or expense.
// ID and Date are fixed at creation; Kind follows the sequence the transaction lives in.
type Transaction struct {
	ID          int64
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        string // localized date captured at creation
}

// Equal compares two transactions, treating decimals by value.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Kind == o.Kind &&
		t.Amount.Equal(o.Amount) &&
		t.Description == o.Description &&
		t.Category == o.Category &&
		t.Date == o.Date
}
