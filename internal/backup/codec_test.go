package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleStore() model.Store {
	return model.Store{
		id.NewMonthKey(2025, 0): {
			Incomes: []model.Transaction{
				{ID: 1736935200000, Kind: model.KindIncome, Amount: dec("100"), Description: "Offering", Category: "Ofrendas", Date: "15/1/2025"},
				{ID: 1736935200001, Kind: model.KindIncome, Amount: dec("12.50"), Description: "Bake sale", Category: "Ventas", Date: "15/1/2025"},
			},
			Expenses: []model.Transaction{
				{ID: 1736935200002, Kind: model.KindExpense, Amount: dec("40.25"), Description: "Bus", Category: "Transporte", Date: "16/1/2025"},
			},
			InitialBalance: decimal.Zero,
		},
		id.NewMonthKey(2025, 1): {
			Incomes:        []model.Transaction{},
			Expenses:       []model.Transaction{},
			InitialBalance: dec("72.25"),
		},
	}
}

func TestRoundTrip(t *testing.T) {
	s := sampleStore()

	data, err := Encode(s)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, s.Equal(got), "decoded store should equal the original")
	assert.Equal(t, model.KindExpense, got[id.NewMonthKey(2025, 0)].Expenses[0].Kind)
}

func TestRoundTrip_Empty(t *testing.T) {
	data, err := Encode(model.Store{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncode_WireShape(t *testing.T) {
	data, err := Encode(sampleStore())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"2025-0": {
			"incomes": [
				{"id": 1736935200000, "amount": 100, "description": "Offering", "category": "Ofrendas", "date": "15/1/2025"},
				{"id": 1736935200001, "amount": 12.5, "description": "Bake sale", "category": "Ventas", "date": "15/1/2025"}
			],
			"expenses": [
				{"id": 1736935200002, "amount": 40.25, "description": "Bus", "category": "Transporte", "date": "16/1/2025"}
			],
			"initialBalance": 0
		},
		"2025-1": {"incomes": [], "expenses": [], "initialBalance": 72.25}
	}`, string(data))
}

func TestDecode_LegacyBackup(t *testing.T) {
	// Written by the browser version: no initialBalance on the first month.
	blob := `{
	  "2024-11": {
	    "incomes": [{"id": 1733000000000, "amount": 250.5, "description": "Ofrenda", "category": "Ofrendas", "date": "1/12/2024"}],
	    "expenses": []
	  }
	}`

	got, err := Decode([]byte(blob))
	require.NoError(t, err)

	rec, ok := got[id.NewMonthKey(2024, 11)]
	require.True(t, ok)
	assert.True(t, rec.InitialBalance.IsZero())
	require.Len(t, rec.Incomes, 1)
	assert.True(t, rec.Incomes[0].Amount.Equal(dec("250.5")))
	assert.Equal(t, model.KindIncome, rec.Incomes[0].Kind)
	assert.Empty(t, rec.Expenses)
}

func TestDecode_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty", ""},
		{"not json", "hello"},
		{"truncated", `{"2025-0": {"incomes": [`},
		{"array", `[]`},
		{"null", `null`},
		{"bad key", `{"January": {"incomes": [], "expenses": []}}`},
		{"month out of range", `{"2025-12": {"incomes": [], "expenses": []}}`},
		{"bad amount", `{"2025-0": {"incomes": [{"id": 1, "amount": "abc", "description": "x", "category": "Otros", "date": ""}], "expenses": []}}`},
		{"missing amount", `{"2025-0": {"incomes": [{"id": 1, "description": "x"}], "expenses": []}}`},
		{"wrong shape", `{"2025-0": 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.blob))
			require.Error(t, err)
			var fe FormatError
			assert.True(t, errors.As(err, &fe), "expected FormatError, got %T", err)
		})
	}
}

func TestFileName(t *testing.T) {
	day := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "Respaldo_Tesoreria_2025-03-09.json", FileName("Respaldo_Tesoreria", day))
}

func TestExportAndReadFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	path, err := Export(dir, "Respaldo_Tesoreria", day, sampleStore())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Respaldo_Tesoreria_2025-03-09.json"), path)

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, sampleStore().Equal(got))
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var fe FormatError
	assert.False(t, errors.As(err, &fe), "a missing file is not a format error")
}
