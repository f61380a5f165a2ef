package fabricate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrInvalidTemplate     = errors.New("invalid template")
	ErrInvalidDialect      = errors.New("invalid dialect")
	ErrMalformed           = errors.New("malformed delimited text")
	ErrAlreadyExists       = errors.New("already exists")
	ErrUnknownLabel        = errors.New("unknown label")
	ErrRowOutOfRange       = errors.New("row out of range")
	ErrNotTabular          = errors.New("content is not tabular")
)

// Format represents a fixture output format for [Cells].
type Format string

const (
	CSV      Format = "csv"
	TSV      Format = "tsv"
	JSON     Format = "json"
	JSONL    Format = "jsonl"
	YAML     Format = "yaml"
	Markdown Format = "markdown"
	HTML     Format = "html"
	ENV      Format = "env"
)

const goTemplatePrefix = "go-template="

var formats = []Format{CSV, TSV, JSON, JSONL, YAML, Markdown, HTML, ENV}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported static format names.
// GoTemplate is not included because it is parameterized.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// GoTemplate returns a Format that renders every data row of a [Cells]
// through a Go text/template. The row is exposed as a map from header label
// to cell value, and each execution is followed by a line feed.
func GoTemplate(tmpl string) Format {
	return Format(goTemplatePrefix + tmpl)
}

// ParseFormat parses a format string. Recognizes all static formats and
// go-template=<tmpl> strings.
func ParseFormat(s string) (Format, error) {
	if strings.HasPrefix(s, goTemplatePrefix) {
		return Format(s), nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Write renders c in format f and writes it to w. Pending overrides are
// applied first, and the trailing line feed is dropped when
// [Cells.WithoutTrailingBreak] was called.
func (c *Cells) Write(w io.Writer, f Format) error {
	data, err := c.Marshal(f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal renders c in format f and returns the bytes.
func (c *Cells) Marshal(f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.write(&buf, f); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	if c.noTrailingBreak {
		out = bytes.TrimSuffix(out, []byte("\n"))
	}
	return out, nil
}

func (c *Cells) write(w io.Writer, f Format) error {
	rows := c.Rows()
	switch f {
	case CSV:
		return writeDelimited(w, rows, CSVDialect)
	case TSV:
		return writeDelimited(w, rows, TSVDialect)
	case JSON:
		return writeJSON(w, rows)
	case JSONL:
		return writeJSONL(w, rows)
	case YAML:
		return writeYAML(w, rows)
	case Markdown:
		return writeMarkdown(w, rows)
	case HTML:
		return writeHTML(w, rows)
	case ENV:
		return writeENV(w, rows)
	default:
		if tmpl, ok := strings.CutPrefix(string(f), goTemplatePrefix); ok {
			return writeGoTemplate(w, tmpl, rows)
		}
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// records splits rows into the header and the data rows that follow it.
func records(rows [][]string) (header []string, data [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], rows[1:]
}

// fieldName returns the header label for column i, falling back to a
// positional name for ragged rows wider than the header.
func fieldName(header []string, i int) string {
	if i < len(header) {
		return header[i]
	}
	return fmt.Sprintf("column%d", i+1)
}
