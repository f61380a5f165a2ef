package fabricate

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle controls the characters [Cells.WriteTable] draws with.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
}

// String draws the grid, overrides applied, as a rounded table. It is meant
// for test failure messages; control characters in cells are shown escaped.
func (c *Cells) String() string {
	var sb strings.Builder
	if err := c.WriteTable(&sb, BorderRounded); err != nil {
		return ""
	}
	return sb.String()
}

// WriteTable draws the grid with row 0 as the header. Column widths follow
// terminal display width, so wide characters line up.
func (c *Cells) WriteTable(w io.Writer, style BorderStyle) error {
	rows := c.Rows()
	for _, row := range rows {
		for i, cell := range row {
			row[i] = tableEscaper.Replace(cell)
		}
	}
	header, data := records(rows)
	numCols := colCount(header, data)
	widths := computeWidths(numCols, header, data)
	if style == BorderNone {
		return renderPlainTable(w, header, data, widths)
	}
	bc, ok := borderSets[style]
	if !ok {
		return fmt.Errorf("unknown border style %d", style)
	}
	return renderBorderedTable(w, header, data, widths, bc)
}

var tableEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

func colCount(header []string, rows [][]string) int {
	n := len(header)
	for _, row := range rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func computeWidths(numCols int, header []string, rows [][]string) []int {
	widths := make([]int, numCols)
	for i, h := range header {
		if w := runewidth.StringWidth(h); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); i < numCols && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// --- Plain table (BorderNone) ---

func renderPlainTable(w io.Writer, header []string, rows [][]string, widths []int) error {
	if len(header) > 0 {
		if err := writePlainRow(w, header, widths); err != nil {
			return err
		}
		sep := make([]string, len(widths))
		for i, width := range widths {
			sep[i] = strings.Repeat("-", width)
		}
		if _, err := fmt.Fprintln(w, strings.Join(sep, "  ")); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writePlainRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writePlainRow(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = padCell(cell, width)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

// --- Bordered table ---

func renderBorderedTable(w io.Writer, header []string, rows [][]string, widths []int, bc borderChars) error {
	if err := drawHLine(w, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight); err != nil {
		return err
	}
	if len(header) > 0 {
		if err := drawBorderedRow(w, header, widths, bc.vertical); err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := drawHLine(w, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee); err != nil {
				return err
			}
		}
	}
	for _, row := range rows {
		if err := drawBorderedRow(w, row, widths, bc.vertical); err != nil {
			return err
		}
	}
	return drawHLine(w, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawBorderedRow(w io.Writer, cells []string, widths []int, vert string) error {
	var sb strings.Builder
	sb.WriteString(vert)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(padCell(cell, width))
		sb.WriteString(" ")
		if i < len(widths)-1 {
			sb.WriteString(vert)
		}
	}
	sb.WriteString(vert)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}
