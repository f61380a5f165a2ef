package fabricate

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Fabricator creates [File] values and owns every path they write. Paths
// are removed by [Fabricator.Cleanup], typically from TestMain after m.Run.
//
// A Fabricator is safe for concurrent use. The Files it creates are not.
type Fabricator struct {
	mu     sync.Mutex
	dir    string
	prefix string
	logger *slog.Logger
	paths  []string
}

// Option configures a [Fabricator].
type Option func(*Fabricator)

// WithDir sets the default output directory.
func WithDir(dir string) Option {
	return func(fb *Fabricator) { fb.dir = dir }
}

// WithPrefix sets the prefix of generated file names. Default "tst".
func WithPrefix(prefix string) Option {
	return func(fb *Fabricator) { fb.prefix = prefix }
}

// WithLogger sets the logger used for debug events. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(fb *Fabricator) { fb.logger = l }
}

// New returns a Fabricator configured by opts.
func New(opts ...Option) *Fabricator {
	fb := &Fabricator{
		prefix: "tst",
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(fb)
	}
	return fb
}

// Default is the process-wide fabricator used by the package-level
// constructors.
var Default = New()

// SetDir sets the default output directory of [Default].
func SetDir(dir string) { Default.SetDir(dir) }

// Cleanup removes every path written through [Default].
func Cleanup() error { return Default.Cleanup() }

// Registered returns the paths [Default] will remove on [Cleanup].
func Registered() []string { return Default.Registered() }

// SetDir sets the default output directory for files that do not override
// it. Files already materialized keep their path.
func (fb *Fabricator) SetDir(dir string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.dir = dir
}

// Dir returns the directory new files are written to: the configured
// directory, else $FABRICATE_DIR, else [os.TempDir].
func (fb *Fabricator) Dir() string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return resolveDir(fb.dir)
}

// FromString returns a File holding s verbatim.
func (fb *Fabricator) FromString(s string) *File {
	return fb.newFile(literal(s))
}

// CSV returns a File rendering c as comma separated values.
func (fb *Fabricator) CSV(c *Cells) *File {
	return fb.Delimited(c, CSVDialect)
}

// TSV returns a File rendering c as tab separated values.
func (fb *Fabricator) TSV(c *Cells) *File {
	return fb.Delimited(c, TSVDialect)
}

// Delimited returns a File rendering c as delimited text in dialect d.
func (fb *Fabricator) Delimited(c *Cells, d Dialect) *File {
	return fb.newFile(&tabular{cells: c, dialect: d})
}

// Format returns a File rendering c in format f. CSV and TSV behave like
// [Fabricator.CSV] and [Fabricator.TSV].
func (fb *Fabricator) Format(c *Cells, f Format) *File {
	switch f {
	case CSV:
		return fb.CSV(c)
	case TSV:
		return fb.TSV(c)
	}
	return fb.newFile(&tabular{cells: c, format: f})
}

// FromString returns a File holding s, owned by [Default].
func FromString(s string) *File { return Default.FromString(s) }

// ToCSV wraps c in a comma separated [File] owned by [Default].
func (c *Cells) ToCSV() *File { return Default.CSV(c) }

// ToDelimited wraps c in a [File] using dialect d, owned by [Default].
func (c *Cells) ToDelimited(d Dialect) *File { return Default.Delimited(c, d) }

// ToFormat wraps c in a [File] rendered as f, owned by [Default].
func (c *Cells) ToFormat(f Format) *File { return Default.Format(c, f) }

// Registered returns the paths pending removal, in registration order.
func (fb *Fabricator) Registered() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.paths)
}

// Cleanup removes every registered path in registration order and empties
// the registry. Paths that no longer exist are skipped. Other removal
// errors are collected and returned together once every path was tried.
func (fb *Fabricator) Cleanup() error {
	fb.mu.Lock()
	paths := fb.paths
	fb.paths = nil
	fb.mu.Unlock()

	var errs []error
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			fb.logger.Debug("fixture removed", "path", p)
		case errors.Is(err, fs.ErrNotExist):
			fb.logger.Debug("fixture already gone", "path", p)
		default:
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (fb *Fabricator) register(path string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.paths = append(fb.paths, path)
}

// allocate creates an empty, uniquely named file in dir and registers it.
func (fb *Fabricator) allocate(dir string) (string, error) {
	path := filepath.Join(dir, fb.prefix+uuid.NewString())
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	fb.register(path)
	fb.logger.Debug("fixture created", "path", path)
	return path, f.Close()
}

func (fb *Fabricator) newFile(src source) *File {
	return &File{fab: fb, src: src, settings: defaultSettings()}
}
