package fabricate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"gopkg.in/yaml.v3"
)

// Column is one labelled column of a [Template]. Source may be a
// [*Generator], a slice (cycled with [Rotation]) or any other value, which
// is repeated on every row.
type Column struct {
	Label  string
	Source any
}

// Col is shorthand for a [Column] literal.
func Col(label string, source any) Column {
	return Column{Label: label, Source: source}
}

// Template expands column definitions into rows of synthetic data.
type Template struct {
	columns []column
}

type sourceKind int

const (
	sourceGenerator sourceKind = iota
	sourceConstant
)

type column struct {
	label    string
	kind     sourceKind
	gen      *Generator
	constant string
}

func (c column) valueAt(i int) string {
	if c.kind == sourceGenerator {
		return c.gen.ValueAt(i)
	}
	return c.constant
}

// DefineTemplate returns a Template with the given columns, in order.
func DefineTemplate(columns ...Column) *Template {
	t := &Template{columns: make([]column, len(columns))}
	for i, c := range columns {
		t.columns[i] = resolve(c)
	}
	return t
}

func resolve(c Column) column {
	switch src := c.Source.(type) {
	case *Generator:
		return column{label: c.Label, kind: sourceGenerator, gen: src}
	case Generator:
		return column{label: c.Label, kind: sourceGenerator, gen: &src}
	case []byte:
		return column{label: c.Label, kind: sourceConstant, constant: string(src)}
	}
	if v := reflect.ValueOf(c.Source); v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		values := make([]any, v.Len())
		for i := range values {
			values[i] = v.Index(i).Interface()
		}
		return column{label: c.Label, kind: sourceGenerator, gen: Rotation(values...)}
	}
	return column{label: c.Label, kind: sourceConstant, constant: display(c.Source)}
}

// Labels returns the column labels in definition order.
func (t *Template) Labels() []string {
	labels := make([]string, len(t.columns))
	for i, c := range t.columns {
		labels[i] = c.label
	}
	return labels
}

// Rows expands the template into a header row followed by count data rows.
// Data row i holds each generator's value at position i.
func (t *Template) Rows(count int) *Cells {
	rows := make([][]string, 0, count+1)
	rows = append(rows, t.Labels())
	for _, row := range t.All(count) {
		rows = append(rows, row)
	}
	return &Cells{rows: rows}
}

// --- YAML definitions ---

// generatorSpec is the mapping form of a column in a YAML template.
type generatorSpec struct {
	Integer *struct {
		Min int  `yaml:"min"`
		Max *int `yaml:"max"`
	} `yaml:"integer"`
	String *struct {
		Size int `yaml:"size"`
	} `yaml:"string"`
	Date *struct {
		Layout string `yaml:"layout"`
		Base   string `yaml:"base"`
	} `yaml:"date"`
	Rotation []string `yaml:"rotation"`
	Format   string   `yaml:"format"`
}

// ParseTemplate reads a template definition from YAML. The document is a
// mapping from label to source, kept in document order:
//
//	id:     {integer: {min: 1, max: 4}}
//	mail:   {string: {size: 3}, format: "%s@example.com"}
//	joined: {date: {layout: "2006-01-02"}}
//	flag:   [T, F]
//	note:   fixed
//
// A scalar is a constant, a sequence is a rotation, and a mapping names one
// generator plus an optional printf format.
func ParseTemplate(r io.Reader) (*Template, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return DefineTemplate(), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of label to source", ErrInvalidTemplate, root.Line)
	}

	var columns []Column
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		src, err := sourceFromNode(val)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %s", ErrInvalidTemplate, key.Value, err)
		}
		columns = append(columns, Col(key.Value, src))
	}
	return DefineTemplate(columns...), nil
}

// LoadTemplate reads a YAML template definition from path.
func LoadTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTemplate(f)
}

func sourceFromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil
	case yaml.SequenceNode:
		var values []string
		if err := n.Decode(&values); err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("line %d: empty rotation", n.Line)
		}
		return values, nil
	case yaml.MappingNode:
		var spec generatorSpec
		if err := n.Decode(&spec); err != nil {
			return nil, err
		}
		gen, err := spec.generator()
		if err != nil {
			return nil, fmt.Errorf("line %d: %s", n.Line, err)
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node", n.Line)
	}
}

func (s generatorSpec) generator() (*Generator, error) {
	var gens []*Generator
	if s.Integer != nil {
		if s.Integer.Max == nil {
			gens = append(gens, Integer(s.Integer.Min))
		} else if *s.Integer.Max < s.Integer.Min {
			return nil, fmt.Errorf("integer max %d < min %d", *s.Integer.Max, s.Integer.Min)
		} else {
			gens = append(gens, IntegerBetween(s.Integer.Min, *s.Integer.Max))
		}
	}
	if s.String != nil {
		if s.String.Size < 0 {
			return nil, fmt.Errorf("negative string size %d", s.String.Size)
		}
		gens = append(gens, String(s.String.Size))
	}
	if s.Date != nil {
		base := DefaultDateBase
		if s.Date.Base != "" {
			t, err := time.Parse(DefaultDateLayout, s.Date.Base)
			if err != nil {
				return nil, fmt.Errorf("date base: %w", err)
			}
			base = t
		}
		gens = append(gens, DateFrom(base, s.Date.Layout))
	}
	if s.Rotation != nil {
		if len(s.Rotation) == 0 {
			return nil, errors.New("empty rotation")
		}
		values := make([]any, len(s.Rotation))
		for i, v := range s.Rotation {
			values[i] = v
		}
		gens = append(gens, Rotation(values...))
	}
	if len(gens) != 1 {
		return nil, fmt.Errorf("want exactly one of integer, string, date, rotation; got %d", len(gens))
	}
	if s.Format != "" {
		return gens[0].Format(s.Format), nil
	}
	return gens[0], nil
}
