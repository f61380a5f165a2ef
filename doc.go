// Package fabricate writes throwaway fixture files for tests.
//
// A fixture starts as a string or as [Cells], a grid of values. Wrapping it
// in a [File] describes how it should be written; nothing touches the disk
// until [File.Path] is called:
//
//	path, err := fabricate.From2D([][]string{
//		{"id", "name"},
//		{"1", "Alice"},
//	}).ToCSV().EncodeTo("Shift_JIS").Path()
//
// # Lazy files
//
// Setting methods ([File.EncodeTo], [File.PrependUTF8BOM],
// [File.MoveDirectoryTo], [File.ChangeFileNameTo], [File.ChangeValue])
// return the same File and discard any file already written. The next call
// to [File.Path] writes a new one; calls in between return the cached path.
//
// # Cleanup
//
// Every path is registered with a [Fabricator] the moment it is created and
// removed by [Fabricator.Cleanup]. The package-level constructors use
// [Default], so a test binary drains it once:
//
//	func TestMain(m *testing.M) {
//		code := m.Run()
//		_ = fabricate.Cleanup()
//		os.Exit(code)
//	}
//
// The output directory is the file's own ([File.MoveDirectoryTo]), else the
// fabricator's ([WithDir], [SetDir]), else $FABRICATE_DIR, else
// [os.TempDir].
//
// # Templates
//
// [DefineTemplate] builds rows of synthetic data from per-column sources.
// A [Generator] maps the row position to a value; slices rotate; any other
// value is repeated:
//
//	cells := fabricate.DefineTemplate(
//		fabricate.Col("id", fabricate.IntegerBetween(1, 4)),
//		fabricate.Col("mail", fabricate.String(3).Format("%s@example.com")),
//		fabricate.Col("flag", []string{"T", "F"}),
//		fabricate.Col("note", "fixed"),
//	).Rows(10)
//
// Templates can also be read from YAML with [ParseTemplate].
//
// # Formats
//
// Cells render as CSV or TSV with [Cells.Render] and a [Dialect], or as
// JSON, JSONL, YAML, Markdown, HTML, dotenv and [GoTemplate] output with
// [Cells.Marshal]. [Cells.String] draws a table for failure messages.
//
// # Encodings
//
// Content is produced as UTF-8 and transcoded when another encoding is
// requested; see [LookupEncoding] for the supported names.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrAlreadyExists]: a fixed file name is already taken
//   - [ErrUnknownLabel], [ErrRowOutOfRange]: bad [Cells.ChangeValue] target
//   - [ErrUnsupportedEncoding]: unknown encoding name
//   - [ErrUnsupportedFormat]: unknown format string
//   - [ErrInvalidTemplate]: invalid YAML template or go-template syntax
//   - [ErrInvalidDialect], [ErrMalformed]: delimited text problems
//   - [ErrNotTabular]: cell override on a string fixture
package fabricate
