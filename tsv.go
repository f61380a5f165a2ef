package fabricate

// ToTSV wraps c in a tab separated [File] owned by the [Default] fabricator.
func (c *Cells) ToTSV() *File {
	return Default.Delimited(c, TSVDialect)
}

// ReadTSV parses the tab separated file at path.
func ReadTSV(path string) (*Cells, error) {
	return ReadFile(path, TSVDialect)
}
