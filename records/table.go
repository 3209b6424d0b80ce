package records

// Table is a header plus rows aligned positionally to the header. Missing cells are null.
type Table struct {
	Header []string
	Rows   [][]Value
}

// IsEmpty is true for a table without a header, i.e. nothing to write.
func (t Table) IsEmpty() bool {
	return len(t.Header) == 0
}

// Values renders the header and rows as the 2-D cell array expected by the Sheets API.
func (t Table) Values() [][]any {
	if t.IsEmpty() {
		return [][]any{}
	}

	values := make([][]any, 0, len(t.Rows)+1)

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}

	values = append(values, header)

	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v.Native()
		}

		values = append(values, cells)
	}

	return values
}

// BuildTable builds a rectangular table from a set of flat records. The header is the union of
// all keys in order of first appearance. The records are not modified.
func BuildTable(flats []*Flat) Table {
	if len(flats) == 0 {
		return Table{}
	}

	// ... header
	index := map[string]bool{}
	header := []string{}

	for _, f := range flats {
		for _, k := range f.Keys() {
			if !index[k] {
				index[k] = true
				header = append(header, k)
			}
		}
	}

	// ... rows
	rows := make([][]Value, 0, len(flats))

	for _, f := range flats {
		row := make([]Value, len(header))
		for i, k := range header {
			if v, ok := f.Get(k); ok {
				row[i] = v
			} else {
				row[i] = NullValue()
			}
		}

		rows = append(rows, row)
	}

	return Table{
		Header: header,
		Rows:   rows,
	}
}
