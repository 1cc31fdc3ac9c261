package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/treasury-ledger/treasury/internal/model"
)

// Params carries the editable fields of a transaction.
type Params struct {
	Amount      decimal.Decimal
	Description string
	Category    string
}

// CategoryChecker tests whether a category belongs to a kind's catalog.
type CategoryChecker interface {
	Exists(kind model.Kind, name string) bool
}

// Validate enforces the rules shared by add and edit: a positive amount and a
// non-blank description. When cats is non-nil the
// category must also be in the kind's catalog.
func Validate(kind model.Kind, p Params, cats CategoryChecker) error {
	if !kind.Valid() {
		return ValidationError{Field: "kind", Reason: "must be income or expense, got " + string(kind)}
	}
	if !p.Amount.IsPositive() {
		return ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if strings.TrimSpace(p.Description) == "" {
		return ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if cats != nil && !cats.Exists(kind, p.Category) {
		return ValidationError{Field: "category", Reason: "unknown " + string(kind) + " category " + p.Category}
	}
	return nil
}
