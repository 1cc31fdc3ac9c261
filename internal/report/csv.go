package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVWriter writes the report grid as CSV, one record per row.
type CSVWriter struct{}

func (*CSVWriter) Format() string    { return "csv" }
func (*CSVWriter) Extension() string { return "csv" }

func (*CSVWriter) Write(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	for i, row := range r.Table() {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = c.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
