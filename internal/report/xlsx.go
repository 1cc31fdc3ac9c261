package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes the report as a single-sheet workbook.
type XLSXWriter struct{}

func (*XLSXWriter) Format() string    { return "xlsx" }
func (*XLSXWriter) Extension() string { return "xlsx" }

// numFmtFixed2 is the built-in "0.00" number format.
const numFmtFixed2 = 2

func (*XLSXWriter) Write(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := r.Labels.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtFixed2})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for i, row := range r.Table() {
		for j, c := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			switch {
			case c.IsAmount:
				if err := f.SetCellFloat(sheet, cell, c.Amount.InexactFloat64(), 2, 64); err != nil {
					return fmt.Errorf("setting %s: %w", cell, err)
				}
				if err := f.SetCellStyle(sheet, cell, cell, amountStyle); err != nil {
					return fmt.Errorf("styling %s: %w", cell, err)
				}
			case c.Text != "":
				if err := f.SetCellStr(sheet, cell, c.Text); err != nil {
					return fmt.Errorf("setting %s: %w", cell, err)
				}
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
