package fabricate

import (
	"bytes"
	"io"
)

func writeJSONL(w io.Writer, rows [][]string) error {
	header, data := records(rows)
	for _, row := range data {
		var buf bytes.Buffer
		if err := appendObject(&buf, record(header, row)); err != nil {
			return err
		}
		buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
