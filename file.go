package fabricate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// File is a fixture that is written to disk on first access. Setting
// methods return the same File for chaining and discard any file already
// written, so the next [File.Path] writes a fresh one with the new settings.
//
// Every path a File writes is registered with its [Fabricator] and removed
// by [Fabricator.Cleanup]; files are never removed earlier.
type File struct {
	fab      *Fabricator
	src      source
	settings Settings
	path     string
}

// source renders the content of a File as UTF-8 text.
type source interface {
	render() (string, error)
}

type literal string

func (l literal) render() (string, error) { return string(l), nil }

type tabular struct {
	cells   *Cells
	dialect Dialect
	format  Format
}

func (t *tabular) render() (string, error) {
	if t.format == "" {
		return t.cells.Render(t.dialect)
	}
	data, err := t.cells.Marshal(t.format)
	return string(data), err
}

// Settings returns a copy of the current settings.
func (f *File) Settings() Settings {
	return f.settings.clone()
}

// EncodeTo sets the target encoding, see [LookupEncoding]. Choosing
// UTF-16LE also prepends the FF FE byte order mark unless a BOM was set
// explicitly; switching to another encoding drops that automatic BOM.
// Unknown encodings are reported by [File.Path].
func (f *File) EncodeTo(name string) *File {
	f.settings.Encoding = name
	switch {
	case isUTF16LE(name) && len(f.settings.BOM) == 0:
		f.settings.BOM = slices.Clone(bomUTF16LE)
		f.settings.autoBOM = true
	case !isUTF16LE(name) && f.settings.autoBOM:
		f.settings.BOM = nil
		f.settings.autoBOM = false
	}
	return f.invalidate()
}

// PrependUTF8BOM writes the UTF-8 byte order mark EF BB BF before the
// content.
func (f *File) PrependUTF8BOM() *File {
	return f.PrependBOM(bomUTF8)
}

// PrependBOM writes bom before the content. A nil bom removes it.
func (f *File) PrependBOM(bom []byte) *File {
	f.settings.BOM = slices.Clone(bom)
	f.settings.autoBOM = false
	return f.invalidate()
}

// MoveDirectoryTo writes the file into dir instead of the fabricator's
// directory.
func (f *File) MoveDirectoryTo(dir string) *File {
	f.settings.Dir = dir
	return f.invalidate()
}

// ChangeFileNameTo gives the file a fixed name inside its directory.
// [File.Path] fails with [ErrAlreadyExists] if that path is taken.
func (f *File) ChangeFileNameTo(name string) *File {
	f.settings.Name = name
	return f.invalidate()
}

// ChangeValue forwards to [Cells.ChangeValue] for tabular files and
// invalidates the written file on success. Files built from a string
// return [ErrNotTabular].
func (f *File) ChangeValue(row int, label string, value any) error {
	t, ok := f.src.(*tabular)
	if !ok {
		return ErrNotTabular
	}
	if err := t.cells.ChangeValue(row, label, value); err != nil {
		return err
	}
	f.invalidate()
	return nil
}

func (f *File) invalidate() *File {
	f.settings.Materialized = false
	f.path = ""
	return f
}

// Path returns the path of the written file, writing it first if the
// settings changed since the last call. Repeated calls without a setting
// change return the same path without touching the disk.
func (f *File) Path() (string, error) {
	if f.settings.Materialized {
		return f.path, nil
	}
	path, err := f.materialize()
	if err != nil {
		return "", err
	}
	f.path = path
	f.settings.Materialized = true
	return path, nil
}

// MustPath is like [File.Path] but panics on error.
func (f *File) MustPath() string {
	path, err := f.Path()
	if err != nil {
		panic(err)
	}
	return path
}

// ReadAll returns the bytes of the written file, writing it first if
// needed.
func (f *File) ReadAll() ([]byte, error) {
	path, err := f.Path()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (f *File) materialize() (string, error) {
	dir := f.settings.Dir
	if dir == "" {
		dir = f.fab.Dir()
	}
	path, err := f.fab.allocate(dir)
	if err != nil {
		return "", err
	}

	if name := f.settings.Name; name != "" {
		final := filepath.Join(dir, name)
		if _, err := os.Lstat(final); err == nil {
			return "", fmt.Errorf("%w: %s", ErrAlreadyExists, final)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if err := os.Rename(path, final); err != nil {
			return "", err
		}
		f.fab.register(final)
		f.fab.logger.Debug("fixture renamed", "from", path, "to", final)
		path = final
	}

	if err := f.write(path); err != nil {
		return "", err
	}
	f.fab.logger.Debug("fixture written", "path", path, "encoding", f.settings.Encoding)
	return path, nil
}

// write fills path with the BOM and the encoded content. The handle is
// closed on every return; a close error is reported only if nothing else
// failed.
func (f *File) write(path string) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if len(f.settings.BOM) > 0 {
		if _, err := out.Write(f.settings.BOM); err != nil {
			return err
		}
	}
	content, err := f.src.render()
	if err != nil {
		return err
	}
	data, err := transcode(content, f.settings.Encoding)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
