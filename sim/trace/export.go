package trace

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes the log as a CSV table with a header row and one
// row per stage interval, for consumption by external reporting tools.
// Times are simulated minutes with four decimals.
func (tl *TraceLog) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"part", "stage", "start", "finish", "duration"}); err != nil {
		return err
	}
	for _, r := range tl.records {
		row := []string{
			r.PartName(),
			r.Stage.String(),
			fmt.Sprintf("%.4f", r.Start),
			fmt.Sprintf("%.4f", r.Finish),
			fmt.Sprintf("%.4f", r.Duration()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
