package fabricate

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// writeMarkdown renders row 0 as the table header. Pipes inside cells are
// escaped and line breaks become <br> so every record stays on one line.
func writeMarkdown(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	header, data := records(rows)
	numCols := colCount(header, data)
	header = escapeMarkdownRow(header)
	for i, row := range data {
		data[i] = escapeMarkdownRow(row)
	}

	// Minimum width 3 so the separator is a valid delimiter row.
	widths := computeWidths(numCols, header, data)
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	if err := writeMarkdownRow(w, header, widths); err != nil {
		return err
	}
	sep := make([]string, numCols)
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}
	for _, row := range data {
		if err := writeMarkdownRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")

func escapeMarkdownRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = markdownEscaper.Replace(cell)
	}
	return out
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = padCell(cell, width)
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}

func padCell(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}
