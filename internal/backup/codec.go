// Package backup converts a ledger store to and from its JSON backup form.
//
// The format is the one the ledger has always written: an object keyed by
// "<year>-<month0>" whose values hold "incomes", "expenses" and
// "initialBalance". A transaction's kind is implied by the list it sits in.
// There is no schema version.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/model"
)

// FormatError means a blob could not be read as a ledger store.
type FormatError struct {
	Err error
}

func (e FormatError) Error() string {
	return fmt.Sprintf("invalid ledger data: %v", e.Err)
}

func (e FormatError) Unwrap() error {
	return e.Err
}

type wireTransaction struct {
	ID          int64       `json:"id"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

type wireMonth struct {
	Incomes        []wireTransaction `json:"incomes"`
	Expenses       []wireTransaction `json:"expenses"`
	InitialBalance json.Number       `json:"initialBalance"`
}

// Encode serializes the whole store as indented JSON.
func Encode(s model.Store) ([]byte, error) {
	wire := make(map[id.MonthKey]wireMonth, len(s))
	for key, rec := range s {
		wire[key] = wireMonth{
			Incomes:        marshalSeq(rec.Incomes),
			Expenses:       marshalSeq(rec.Expenses),
			InitialBalance: json.Number(rec.InitialBalance.String()),
		}
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling store: %w", err)
	}
	return data, nil
}

func marshalSeq(txs []model.Transaction) []wireTransaction {
	out := make([]wireTransaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, wireTransaction{
			ID:          t.ID,
			Amount:      json.Number(t.Amount.String()),
			Description: t.Description,
			Category:    t.Category,
			Date:        t.Date,
		})
	}
	return out
}

// Decode parses a blob produced by Encode. Any problem is a FormatError.
func Decode(data []byte) (model.Store, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, FormatError{Err: fmt.Errorf("expected a JSON object")}
	}

	// Month keys are parsed by id.MonthKey.UnmarshalText.
	var wire map[id.MonthKey]wireMonth
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, FormatError{Err: err}
	}

	s := make(model.Store, len(wire))
	for key, wm := range wire {
		rec, err := unmarshalMonth(wm)
		if err != nil {
			return nil, FormatError{Err: fmt.Errorf("month %s: %w", key, err)}
		}
		s[key] = rec
	}
	return s, nil
}

func unmarshalMonth(wm wireMonth) (model.MonthRecord, error) {
	initial := decimal.Zero
	if wm.InitialBalance != "" {
		d, err := decimal.NewFromString(string(wm.InitialBalance))
		if err != nil {
			return model.MonthRecord{}, fmt.Errorf("parsing initialBalance %q: %w", wm.InitialBalance, err)
		}
		initial = d
	}

	incomes, err := unmarshalSeq(wm.Incomes, model.KindIncome)
	if err != nil {
		return model.MonthRecord{}, err
	}
	expenses, err := unmarshalSeq(wm.Expenses, model.KindExpense)
	if err != nil {
		return model.MonthRecord{}, err
	}

	return model.MonthRecord{
		Incomes:        incomes,
		Expenses:       expenses,
		InitialBalance: initial,
	}, nil
}

func unmarshalSeq(wts []wireTransaction, kind model.Kind) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(wts))
	for i, wt := range wts {
		amount, err := decimal.NewFromString(string(wt.Amount))
		if err != nil {
			return nil, fmt.Errorf("%s %d: parsing amount %q: %w", kind, i, wt.Amount, err)
		}
		out = append(out, model.Transaction{
			ID:          wt.ID,
			Kind:        kind,
			Amount:      amount,
			Description: wt.Description,
			Category:    wt.Category,
			Date:        wt.Date,
		})
	}
	return out, nil
}
