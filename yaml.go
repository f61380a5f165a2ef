package fabricate

import (
	"io"

	"gopkg.in/yaml.v3"
)

// writeYAML encodes data rows as a sequence of mappings. Nodes are built by
// hand so keys keep column order and every value stays a string.
func writeYAML(w io.Writer, rows [][]string) error {
	header, data := records(rows)
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range data {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range record(header, row) {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.value},
			)
		}
		seq.Content = append(seq.Content, m)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}
