package fabricate

import (
	"fmt"
	"io"
	"text/template"
)

func writeGoTemplate(w io.Writer, tmplStr string, rows [][]string) error {
	tmpl, err := template.New("").Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	header, data := records(rows)
	for _, row := range data {
		fields := record(header, row)
		m := make(map[string]string, len(fields))
		for _, f := range fields {
			m[f.key] = f.value
		}
		if err := tmpl.Execute(w, m); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
