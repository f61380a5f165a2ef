package fabricate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Dialect configures delimited text: the field delimiter and the quote
// character that wraps fields needing escaping.
type Dialect struct {
	Comma rune
	Quote rune
}

var (
	CSVDialect = Dialect{Comma: ',', Quote: '"'}
	TSVDialect = Dialect{Comma: '\t', Quote: '"'}
)

func (d Dialect) validate() error {
	valid := func(r rune) bool {
		return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
	}
	if !valid(d.Comma) || !valid(d.Quote) || d.Comma == d.Quote {
		return fmt.Errorf("%w: comma %q, quote %q", ErrInvalidDialect, d.Comma, d.Quote)
	}
	return nil
}

// fieldNeedsQuotes reports whether field contains the delimiter, the quote
// character or a line break.
func (d Dialect) fieldNeedsQuotes(field string) bool {
	return strings.ContainsRune(field, d.Comma) ||
		strings.ContainsRune(field, d.Quote) ||
		strings.ContainsAny(field, "\r\n")
}

// Render serializes the cells as delimited text using d. Overrides are
// applied in registration order, every row ends in a line feed, and the
// final line feed is dropped when [Cells.WithoutTrailingBreak] was called.
func (c *Cells) Render(d Dialect) (string, error) {
	if err := d.validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := writeDelimited(&sb, c.Rows(), d); err != nil {
		return "", err
	}
	out := sb.String()
	if c.noTrailingBreak {
		out = strings.TrimSuffix(out, "\n")
	}
	return out, nil
}

func writeDelimited(w io.Writer, rows [][]string, d Dialect) error {
	bw := bufio.NewWriter(w)
	quote := string(d.Quote)
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				bw.WriteRune(d.Comma)
			}
			if !d.fieldNeedsQuotes(field) {
				bw.WriteString(field)
				continue
			}
			bw.WriteString(quote)
			bw.WriteString(strings.ReplaceAll(field, quote, quote+quote))
			bw.WriteString(quote)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ParseCells decodes delimited text from r into a new [Cells]. It is the
// inverse of [Cells.Render]: quoted fields may hold the delimiter, doubled
// quote characters and line breaks. An empty line decodes to a row with a
// single empty field, and CRLF outside quotes ends a row.
func ParseCells(r io.Reader, d Dialect) (*Cells, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	rows, err := parseDelimited(string(data), d)
	if err != nil {
		return nil, err
	}
	return &Cells{rows: rows}, nil
}

func parseDelimited(s string, d Dialect) ([][]string, error) {
	var (
		rows       [][]string
		row        []string
		field      strings.Builder
		fieldStart = true
		inQuotes   = false
		line       = 1
		quoteLine  = 0
	)
	endField := func() {
		row = append(row, field.String())
		field.Reset()
		fieldStart = true
	}
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r == '\n' {
			line++
		}

		if inQuotes {
			if r != d.Quote {
				field.WriteRune(r)
				continue
			}
			if next, n := utf8.DecodeRuneInString(s); n > 0 && next == d.Quote {
				field.WriteRune(d.Quote)
				s = s[n:]
				continue
			}
			inQuotes = false
			continue
		}

		switch {
		case r == d.Quote && fieldStart:
			inQuotes = true
			quoteLine = line
			fieldStart = false
		case r == d.Comma:
			endField()
		case r == '\n':
			endField()
			rows = append(rows, row)
			row = nil
		case r == '\r' && strings.HasPrefix(s, "\n"):
		default:
			field.WriteRune(r)
			fieldStart = false
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("%w: unterminated quote starting on line %d", ErrMalformed, quoteLine)
	}
	if !fieldStart || field.Len() > 0 || len(row) > 0 {
		endField()
		rows = append(rows, row)
	}
	return rows, nil
}
