package sheet

import "strings"

// Row maps column name to cell value. Every cell is a string: the data
// of record is a spreadsheet and all typing beyond text is presentation.
type Row map[string]string

// Table is one named sheet worth of tabular data. Columns carries the
// authoritative column order so round-tripping never reorders or drops
// headers.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds an empty table with the given column order.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	cp := &Table{Columns: append([]string(nil), t.Columns...)}
	cp.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cp.Rows[i] = r.Clone()
	}
	return cp
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row at the end of the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// IndexBy indexes rows by the value of keyCol. Rows with a blank key are
// skipped; on duplicate keys the first occurrence wins.
func (t *Table) IndexBy(keyCol string) map[string]Row {
	idx := make(map[string]Row, len(t.Rows))
	for _, r := range t.Rows {
		k := strings.TrimSpace(r[keyCol])
		if k == "" {
			continue
		}
		if _, seen := idx[k]; !seen {
			idx[k] = r
		}
	}
	return idx
}

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// ── cell normalization ──

// nullTokens are spellings that spreadsheet round-trips through pandas
// and native editors leave behind for "no value".
var nullTokens = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"nat":  true,
	"<na>": true,
}

// NormalizeCell trims a cell and collapses null-like tokens to the
// empty string, so a re-rendered grid never spuriously differs from
// its snapshot.
func NormalizeCell(s string) string {
	s = strings.TrimSpace(s)
	if nullTokens[strings.ToLower(s)] {
		return ""
	}
	return s
}

// IsTruthy canonicalizes the truthy spellings that occur in the active
// flag column. Comparison is case- and space-insensitive.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "yes", "true", "1":
		return true
	}
	return false
}
