package fabricate

import (
	"fmt"
	"io"
	"strings"
)

// writeENV renders each data row as KEY=value lines keyed by the header,
// with a blank line between rows. Values that a dotenv parser would split
// or truncate are double quoted.
func writeENV(w io.Writer, rows [][]string) error {
	header, data := records(rows)
	for i, row := range data {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, kv := range record(header, row) {
			var err error
			if envNeedsQuotes(kv.value) {
				_, err = fmt.Fprintf(w, "%s=%q\n", kv.key, kv.value)
			} else {
				_, err = fmt.Fprintf(w, "%s=%s\n", kv.key, kv.value)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func envNeedsQuotes(v string) bool {
	return strings.ContainsAny(v, " \t\r\n\"'#=$\\`")
}
