package fabricate

import (
	"fmt"
	"os"
	"slices"
)

// Cells is a grid of string values that can be rendered as CSV, TSV or any
// other [Format]. Row 0 conventionally holds the header labels. Rows may be
// ragged.
//
// Value overrides registered with [Cells.ChangeValue] are buffered and only
// applied when the grid is rendered, so the same Cells can be shared between
// several fixtures.
type Cells struct {
	rows            [][]string
	overrides       []override
	noTrailingBreak bool
}

type override struct {
	row   int // index into rows, header included
	col   int
	value string
}

// From2D builds Cells from a two-dimensional slice. Values are converted to
// their display string: strings as-is, [fmt.Stringer] via String, anything
// else via [fmt.Sprint].
func From2D[T any](rows [][]T) *Cells {
	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = make([]string, len(row))
		for j, v := range row {
			grid[i][j] = display(v)
		}
	}
	return &Cells{rows: grid}
}

// ReadFile parses the delimited file at path using d.
func ReadFile(path string, d Dialect) (*Cells, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCells(f, d)
}

// ReadCSV parses the comma separated file at path.
func ReadCSV(path string) (*Cells, error) {
	return ReadFile(path, CSVDialect)
}

// WithoutTrailingBreak removes the final line feed from rendered output.
func (c *Cells) WithoutTrailingBreak() *Cells {
	c.noTrailingBreak = true
	return c
}

// ChangeValue registers an override of the cell in data row row under the
// column labelled label. Data rows are counted from 0 and exclude the header
// row, so row 0 is the first row after the header.
//
// The label and the row are validated immediately: an unknown label returns
// [ErrUnknownLabel] and a row outside the current data rows returns
// [ErrRowOutOfRange]. The value itself is applied at render time; when
// several overrides target the same cell, the last one registered wins.
func (c *Cells) ChangeValue(row int, label string, value any) error {
	col := slices.Index(c.Header(), label)
	if col < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	if row < 0 || row >= c.Len() {
		return fmt.Errorf("%w: row %d, have %d data rows", ErrRowOutOfRange, row, c.Len())
	}
	c.overrides = append(c.overrides, override{row: row + 1, col: col, value: display(value)})
	return nil
}

// Header returns a copy of the first row, or nil when the grid is empty.
func (c *Cells) Header() []string {
	if len(c.rows) == 0 {
		return nil
	}
	return slices.Clone(c.rows[0])
}

// Len returns the number of data rows, excluding the header.
func (c *Cells) Len() int {
	return max(len(c.rows)-1, 0)
}

// Rows returns a copy of the grid with every pending override applied.
func (c *Cells) Rows() [][]string {
	rows := make([][]string, len(c.rows))
	for i, row := range c.rows {
		rows[i] = slices.Clone(row)
	}
	for _, o := range c.overrides {
		row := rows[o.row]
		if o.col >= len(row) {
			row = append(row, make([]string, o.col-len(row)+1)...)
		}
		row[o.col] = o.value
		rows[o.row] = row
	}
	return rows
}

func display(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
