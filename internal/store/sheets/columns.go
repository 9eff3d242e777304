package sheets

import "strings"

// Columns maps header names to column indexes. Lookups ignore case and surrounding space.
type Columns map[string]int

// NewColumns indexes a header row.
func NewColumns(header []string) Columns {
	cols := make(Columns, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if _, dup := cols[key]; key != "" && !dup {
			cols[key] = i
		}
	}
	return cols
}

// Get returns the trimmed cell under name, or "" when the column or cell is missing.
func (c Columns) Get(row []string, name string) string {
	i, ok := c[normalizeHeader(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Encode writes values into base by header name. Columns absent from the header
// are dropped and cells of unknown columns in base are kept.
func (c Columns) Encode(base []string, values map[string]string) []string {
	width := len(base)
	for _, i := range c {
		if i+1 > width {
			width = i + 1
		}
	}
	row := make([]string, width)
	copy(row, base)
	for name, v := range values {
		if i, ok := c[normalizeHeader(name)]; ok {
			row[i] = v
		}
	}
	return row
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
