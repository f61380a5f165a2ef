package fabricate

import (
	"fmt"
	"html"
	"io"
)

func writeHTML(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	header, data := records(rows)

	if _, err := fmt.Fprintln(w, "<table>"); err != nil {
		return err
	}
	if err := writeHTMLSection(w, "thead", "th", [][]string{header}); err != nil {
		return err
	}
	if err := writeHTMLSection(w, "tbody", "td", data); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "</table>")
	return err
}

func writeHTMLSection(w io.Writer, section, cell string, rows [][]string) error {
	if _, err := fmt.Fprintf(w, "  <%s>\n", section); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, "    <tr>"); err != nil {
			return err
		}
		for _, v := range row {
			if _, err := fmt.Fprintf(w, "      <%s>%s</%s>\n", cell, html.EscapeString(v), cell); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "    </tr>"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  </%s>\n", section)
	return err
}
