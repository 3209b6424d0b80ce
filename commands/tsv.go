package commands

import (
	"encoding/csv"
	"io"
)

// readTSV reads a tab separated file as rows of cell values. Rows may have different lengths and
// an empty file is zero rows.
func readTSV(f io.Reader) ([][]any, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(records))
	for _, record := range records {
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}

		rows = append(rows, row)
	}

	return rows, nil
}
