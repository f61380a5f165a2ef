package fabricate

import (
	"bytes"
	"encoding/json"
	"io"
)

// field is one key/value pair of a record, in column order.
type field struct {
	key   string
	value string
}

// record pairs a data row with the header. Cells missing from a short row
// are empty, and cells beyond the header get positional names.
func record(header, row []string) []field {
	n := max(len(header), len(row))
	out := make([]field, n)
	for i := range n {
		out[i].key = fieldName(header, i)
		if i < len(row) {
			out[i].value = row[i]
		}
	}
	return out
}

func writeJSON(w io.Writer, rows [][]string) error {
	header, data := records(rows)
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range data {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendObject(&buf, record(header, row)); err != nil {
			return err
		}
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// appendObject writes fields as a JSON object, keeping column order.
func appendObject(buf *bytes.Buffer, fields []field) error {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendString(buf, f.key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := appendString(buf, f.value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
