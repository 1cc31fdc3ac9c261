// Package report flattens one month of the ledger into the rows of the
// monthly financial report and writes them out as a spreadsheet or CSV.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/ledger"
	"github.com/treasury-ledger/treasury/internal/model"
)

// Labels are the fixed texts of the report.
type Labels struct {
	Title           string
	Summary         string
	PreviousBalance string
	TotalIncome     string
	TotalExpenses   string
	CurrentBalance  string
	IncomeDetail    string
	ExpenseDetail   string
	Date            string
	Category        string
	Description     string
	Amount          string
	SheetName       string
	FilePrefix      string
	Currency        string
	MonthNames      []string // January first
}

// DefaultLabels returns the Spanish labels the report has always used.
func DefaultLabels() Labels {
	return Labels{
		Title:           "REPORTE FINANCIERO",
		Summary:         "RESUMEN",
		PreviousBalance: "Saldo Anterior:",
		TotalIncome:     "Total Ingresos:",
		TotalExpenses:   "Total Egresos:",
		CurrentBalance:  "Saldo Actual:",
		IncomeDetail:    "DETALLE DE INGRESOS",
		ExpenseDetail:   "DETALLE DE EGRESOS",
		Date:            "Fecha",
		Category:        "Categoría",
		Description:     "Descripción",
		Amount:          "Monto",
		SheetName:       "Reporte",
		FilePrefix:      "Reporte",
		Currency:        "Q",
		MonthNames:      DefaultMonthNames(),
	}
}

// DefaultMonthNames returns the Spanish month names.
func DefaultMonthNames() []string {
	return []string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
}

// MonthName returns the label of key's month, falling back to its number.
func (l Labels) MonthName(key id.MonthKey) string {
	if key.Month >= 0 && key.Month < len(l.MonthNames) {
		return l.MonthNames[key.Month]
	}
	return fmt.Sprintf("%02d", key.Month+1)
}

// Money renders an amount as currency with two fixed decimals, e.g. "Q12.50".
func (l Labels) Money(d decimal.Decimal) string {
	return l.Currency + d.StringFixed(2)
}

// Row is one detail line of the report.
type Row struct {
	Date        string
	Category    string
	Description string
	Amount      decimal.Decimal
}

// Report is one month's report, ready to be written.
type Report struct {
	Month    id.MonthKey
	Summary  model.Summary
	Incomes  []Row
	Expenses []Row
	Labels   Labels
}

// Build produces the report for key. Details keep the order they were recorded in.
func Build(s model.Store, key id.MonthKey, labels Labels) Report {
	rec := s[key]
	return Report{
		Month:    key,
		Summary:  ledger.MonthSummary(s, key),
		Incomes:  rows(rec.Incomes),
		Expenses: rows(rec.Expenses),
		Labels:   labels,
	}
}

func rows(txs []model.Transaction) []Row {
	out := make([]Row, 0, len(txs))
	for _, t := range txs {
		out = append(out, Row{
			Date:        t.Date,
			Category:    t.Category,
			Description: t.Description,
			Amount:      t.Amount,
		})
	}
	return out
}

// Period returns the report's heading, e.g. "Enero 2025".
func (r Report) Period() string {
	return fmt.Sprintf("%s %d", r.Labels.MonthName(r.Month), r.Month.Year)
}

// FileName returns "<prefix>_<MonthName>_<Year>.<ext>".
func (r Report) FileName(ext string) string {
	return fmt.Sprintf("%s_%s_%d.%s", r.Labels.FilePrefix, r.Labels.MonthName(r.Month), r.Month.Year, ext)
}

// Cell is one grid cell. Detail amounts stay numeric so spreadsheets can sum them.
type Cell struct {
	Text     string
	Amount   decimal.Decimal
	IsAmount bool
}

func text(s string) Cell { return Cell{Text: s} }

// String renders the cell for text formats.
func (c Cell) String() string {
	if c.IsAmount {
		return c.Amount.StringFixed(2)
	}
	return c.Text
}

// Table lays the report out as a grid: title, summary block, income detail,
// expense detail, separated by blank rows.
func (r Report) Table() [][]Cell {
	l := r.Labels
	header := []Cell{text(l.Date), text(l.Category), text(l.Description), text(l.Amount)}
	blank := []Cell{text("")}

	grid := [][]Cell{
		{text(l.Title), text(r.Period())},
		blank,
		{text(l.Summary)},
		{text(l.PreviousBalance), text(l.Money(r.Summary.PreviousBalance))},
		{text(l.TotalIncome), text(l.Money(r.Summary.TotalIncome))},
		{text(l.TotalExpenses), text(l.Money(r.Summary.TotalExpenses))},
		{text(l.CurrentBalance), text(l.Money(r.Summary.CurrentBalance))},
		blank,
		{text(l.IncomeDetail)},
		header,
	}
	grid = append(grid, detail(r.Incomes)...)
	grid = append(grid, blank, []Cell{text(l.ExpenseDetail)}, header)
	grid = append(grid, detail(r.Expenses)...)
	return grid
}

func detail(rs []Row) [][]Cell {
	out := make([][]Cell, 0, len(rs))
	for _, r := range rs {
		out = append(out, []Cell{
			text(r.Date),
			text(r.Category),
			text(r.Description),
			{Amount: r.Amount, IsAmount: true},
		})
	}
	return out
}
