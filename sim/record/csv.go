package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the column set of the long-form output table.
var csvHeader = []string{"time", "iteration", "compartment", "value"}

// WriteCSV encodes long-form rows as CSV with a header line. Values are
// written with minimal digits (counts come out as integers, Gillespie
// timestamps keep full float precision).
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	fields := make([]string, 4)
	for i, r := range rows {
		fields[0] = strconv.FormatFloat(r.Time, 'g', -1, 64)
		fields[1] = strconv.Itoa(r.Iteration)
		fields[2] = string(r.Compartment)
		fields[3] = strconv.FormatFloat(r.Value, 'g', -1, 64)
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
