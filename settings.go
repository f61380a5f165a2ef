package fabricate

import "slices"

// Settings describes how a [File] is written. A File owns its Settings;
// [File.Settings] hands out copies.
type Settings struct {
	// Encoding is the target character encoding. Default "UTF-8".
	Encoding string
	// BOM is written before the content when non-empty.
	BOM []byte
	// Dir overrides the fabricator's directory when non-empty.
	Dir string
	// Name is the final file name. A unique name is generated when empty.
	Name string
	// Materialized reports whether the file on disk reflects these settings.
	Materialized bool

	autoBOM bool
}

func defaultSettings() Settings {
	return Settings{Encoding: UTF8}
}

func (s Settings) clone() Settings {
	s.BOM = slices.Clone(s.BOM)
	return s
}
