package fabricate

import "iter"

// All yields count data rows of t with their positions, without building
// the whole grid. The header row is not included; see [Template.Labels].
func (t *Template) All(count int) iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		for i := range count {
			row := make([]string, len(t.columns))
			for j, c := range t.columns {
				row[j] = c.valueAt(i)
			}
			if !yield(i, row) {
				return
			}
		}
	}
}

// All yields the data rows of c, overrides applied, with their 0-based
// data row index. The header row is skipped.
func (c *Cells) All() iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		_, data := records(c.Rows())
		for i, row := range data {
			if !yield(i, row) {
				return
			}
		}
	}
}
