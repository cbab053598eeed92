package entity

import (
	"time"

	"capm_backend/internal/feature/capm/domain"
)

// AlignedTable is a date index plus one fixed-length numeric column per symbol.
// Every column has exactly one value per date and dates ascend strictly.
// The table owns its slices; accessors hand out copies.
type AlignedTable struct {
	dates   []time.Time
	symbols []string
	columns map[string][]float64
}

// Row is one date of an AlignedTable with values in the table's symbol order.
type Row struct {
	Date   time.Time
	Values []float64
}

// NewAlignedTable checks the shape of the given columns and builds a table from copies of them.
func NewAlignedTable(dates []time.Time, symbols []string, columns map[string][]float64) (AlignedTable, error) {
	if len(symbols) == 0 {
		return AlignedTable{}, domain.InvalidInputError("table", "at least one column is required")
	}
	if len(columns) != len(symbols) {
		return AlignedTable{}, domain.InvalidInputError("table", "%d columns given for %d symbols", len(columns), len(symbols))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return AlignedTable{}, domain.InvalidInputError("table", "dates are not strictly ascending at row %d", i)
		}
	}

	t := AlignedTable{
		dates:   make([]time.Time, len(dates)),
		symbols: make([]string, len(symbols)),
		columns: make(map[string][]float64, len(symbols)),
	}
	copy(t.dates, dates)
	copy(t.symbols, symbols)
	for _, sym := range symbols {
		if _, dup := t.columns[sym]; dup {
			return AlignedTable{}, domain.InvalidInputError("table", "duplicate column %q", sym)
		}
		col, ok := columns[sym]
		if !ok {
			return AlignedTable{}, domain.InvalidInputError("table", "missing column %q", sym)
		}
		if len(col) != len(dates) {
			return AlignedTable{}, domain.InvalidInputError("table", "column %q has %d values for %d dates", sym, len(col), len(dates))
		}
		c := make([]float64, len(col))
		copy(c, col)
		t.columns[sym] = c
	}
	return t, nil
}

// Len returns the number of rows.
func (t AlignedTable) Len() int { return len(t.dates) }

// Symbols returns the column names in order.
func (t AlignedTable) Symbols() []string {
	out := make([]string, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Dates returns a copy of the date index.
func (t AlignedTable) Dates() []time.Time {
	out := make([]time.Time, len(t.dates))
	copy(out, t.dates)
	return out
}

// Column returns a copy of the values for sym.
func (t AlignedTable) Column(sym string) ([]float64, bool) {
	col, ok := t.columns[sym]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}

// Has reports whether the table carries a column for sym.
func (t AlignedTable) Has(sym string) bool {
	_, ok := t.columns[sym]
	return ok
}

// Rows returns every row in date order.
func (t AlignedTable) Rows() []Row {
	rows := make([]Row, len(t.dates))
	for i, d := range t.dates {
		vals := make([]float64, len(t.symbols))
		for j, sym := range t.symbols {
			vals[j] = t.columns[sym][i]
		}
		rows[i] = Row{Date: d, Values: vals}
	}
	return rows
}

// Head returns the first n rows as a new table.
func (t AlignedTable) Head(n int) AlignedTable {
	return t.slice(0, min(max(n, 0), t.Len()))
}

// Tail returns the last n rows as a new table.
func (t AlignedTable) Tail(n int) AlignedTable {
	return t.slice(max(t.Len()-max(n, 0), 0), t.Len())
}

func (t AlignedTable) slice(from, to int) AlignedTable {
	out := AlignedTable{
		dates:   make([]time.Time, to-from),
		symbols: t.Symbols(),
		columns: make(map[string][]float64, len(t.symbols)),
	}
	copy(out.dates, t.dates[from:to])
	for sym, col := range t.columns {
		c := make([]float64, to-from)
		copy(c, col[from:to])
		out.columns[sym] = c
	}
	return out
}

// MapColumns builds a new table on the same date index by applying fn to a copy of every column.
// fn must return a slice with one value per date.
func (t AlignedTable) MapColumns(fn func(sym string, values []float64) ([]float64, error)) (AlignedTable, error) {
	cols := make(map[string][]float64, len(t.symbols))
	for _, sym := range t.symbols {
		in, _ := t.Column(sym)
		out, err := fn(sym, in)
		if err != nil {
			return AlignedTable{}, err
		}
		cols[sym] = out
	}
	return NewAlignedTable(t.dates, t.symbols, cols)
}
