package fabricate

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultDateLayout is the layout [Date] uses when none is given.
const DefaultDateLayout = "2006-01-02 15:04:05"

// DefaultDateBase is the first value produced by [Date].
var DefaultDateBase = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generator produces the value of a column for a given row position. It is
// a pure function of the position, so a template always expands to the same
// rows.
type Generator struct {
	fn     func(i int) any
	format string
}

// Callback returns a Generator backed by fn. Panics raised by fn are not
// recovered.
func Callback(fn func(i int) any) *Generator {
	return &Generator{fn: fn}
}

// Format returns a copy of g whose values are passed through
// fmt.Sprintf(format, value).
func (g *Generator) Format(format string) *Generator {
	c := *g
	c.format = format
	return &c
}

// ValueAt returns the value for row position i.
func (g *Generator) ValueAt(i int) string {
	v := g.fn(i)
	if g.format != "" {
		return fmt.Sprintf(g.format, v)
	}
	return display(v)
}

// Values yields the first n values with their positions.
func (g *Generator) Values(n int) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := range n {
			if !yield(i, g.ValueAt(i)) {
				return
			}
		}
	}
}

// Integer counts up from min: min, min+1, min+2, ...
func Integer(min int) *Generator {
	return Callback(func(i int) any { return min + i })
}

// IntegerBetween counts from min to max inclusive and then starts over.
// It panics if max < min.
func IntegerBetween(min, max int) *Generator {
	if max < min {
		panic(fmt.Sprintf("fabricate: IntegerBetween(%d, %d): max < min", min, max))
	}
	period := max - min + 1
	return Callback(func(i int) any { return min + i%period })
}

// String cycles through A..Z then a..z, repeating the letter size times:
// "AA", "BB", ... for size 2.
func String(size int) *Generator {
	return Callback(func(i int) any {
		return strings.Repeat(string(alphabet[i%len(alphabet)]), size)
	})
}

// Date returns one day per row starting at [DefaultDateBase], formatted
// with layout or [DefaultDateLayout] when layout is empty.
func Date(layout string) *Generator {
	return DateFrom(DefaultDateBase, layout)
}

// DateFrom is like [Date] but starts at base.
func DateFrom(base time.Time, layout string) *Generator {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return Callback(func(i int) any {
		return base.Add(time.Duration(i) * 24 * time.Hour).Format(layout)
	})
}

// Rotation cycles through values in order. It panics if values is empty.
func Rotation(values ...any) *Generator {
	if len(values) == 0 {
		panic("fabricate: Rotation requires at least one value")
	}
	values = append([]any(nil), values...)
	return Callback(func(i int) any { return values[i%len(values)] })
}
