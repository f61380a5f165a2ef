package fabricate_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bjaus/fabricate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// ============================================================
// Materialization
// ============================================================

func TestPathIsCached(t *testing.T) {
	t.Parallel()
	fb, dir := newFab(t)
	f := fb.FromString("hello")
	assert.False(t, f.Settings().Materialized)

	first, err := f.Path()
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(first))
	assert.Equal(t, "hello", readFile(t, first))
	assert.True(t, f.Settings().Materialized)

	// A cached path is returned without rewriting the file.
	require.NoError(t, os.WriteFile(first, []byte("tampered"), 0o600))
	second, err := f.Path()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "tampered", readFile(t, second))
}

func TestSettersInvalidate(t *testing.T) {
	t.Parallel()
	tests := map[string]func(t *testing.T, f *fabricate.File){
		"encode to":        func(_ *testing.T, f *fabricate.File) { f.EncodeTo("SJIS") },
		"prepend utf8 bom": func(_ *testing.T, f *fabricate.File) { f.PrependUTF8BOM() },
		"prepend bom":      func(_ *testing.T, f *fabricate.File) { f.PrependBOM([]byte{0x01}) },
		"move directory":   func(t *testing.T, f *fabricate.File) { f.MoveDirectoryTo(t.TempDir()) },
		"change file name": func(_ *testing.T, f *fabricate.File) { f.ChangeFileNameTo("renamed.csv") },
		"change value": func(t *testing.T, f *fabricate.File) {
			require.NoError(t, f.ChangeValue(0, "name", "Carol"))
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fb, _ := newFab(t)
			f := fb.CSV(fabricate.From2D(people))
			first, err := f.Path()
			require.NoError(t, err)

			mutate(t, f)
			assert.False(t, f.Settings().Materialized)

			second, err := f.Path()
			require.NoError(t, err)
			assert.NotEqual(t, first, second)
			assert.FileExists(t, first, "earlier files stay until cleanup")
			assert.FileExists(t, second)
			assert.Subset(t, fb.Registered(), []string{first, second})
		})
	}
}

func TestFailedChangeValueKeepsPath(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	f := fb.CSV(fabricate.From2D(people))
	first, err := f.Path()
	require.NoError(t, err)

	require.ErrorIs(t, f.ChangeValue(5, "name", "x"), fabricate.ErrRowOutOfRange)
	require.ErrorIs(t, f.ChangeValue(0, "nope", "x"), fabricate.ErrUnknownLabel)
	assert.True(t, f.Settings().Materialized)

	second, err := f.Path()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChangeValueOnStringFile(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	err := fb.FromString("id\n1\n").ChangeValue(0, "id", "2")
	require.ErrorIs(t, err, fabricate.ErrNotTabular)
}

func TestChangeValueAfterEncoding(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	f := fb.CSV(fabricate.From2D(people)).EncodeTo("UTF-16LE")
	first, err := f.Path()
	require.NoError(t, err)

	require.NoError(t, f.ChangeValue(1, "name", "Zoë"))
	second, err := f.Path()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	data := []byte(readFile(t, second))
	require.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xFE}))
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data[2:])
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Alice\n2,Zoë\n", string(decoded))
}

func TestMustPath(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	assert.NotEmpty(t, fb.FromString("x").MustPath())
	assert.Panics(t, func() { fb.FromString("x").EncodeTo("no-such-encoding").MustPath() })
}

func TestReadAll(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	data, err := fb.TSV(fabricate.From2D(people)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n1\tAlice\n2\tBob\n", string(data))

	_, err = fb.FromString("x").EncodeTo("no-such-encoding").ReadAll()
	require.ErrorIs(t, err, fabricate.ErrUnsupportedEncoding)
}

func TestSettingsIsCopy(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	f := fb.FromString("x").PrependUTF8BOM()

	s := f.Settings()
	assert.Equal(t, fabricate.UTF8, s.Encoding)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, s.BOM)
	s.BOM[0] = 0
	s.Encoding = "SJIS"
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, f.Settings().BOM)
	assert.Equal(t, fabricate.UTF8, f.Settings().Encoding)
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	s := fb.FromString("x").Settings()
	assert.Equal(t, fabricate.Settings{Encoding: "UTF-8"}, s)
}

// ============================================================
// Encodings and byte order marks
// ============================================================

func TestEncodeTo(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		content  string
		encoding string
		want     []byte
	}{
		"utf-8":         {content: "abc", encoding: "utf-8", want: []byte("abc")},
		"utf8 alias":    {content: "あ", encoding: "UTF8", want: []byte("あ")},
		"shift_jis":     {content: "あいう", encoding: "SJIS", want: []byte{0x82, 0xA0, 0x82, 0xA2, 0x82, 0xA4}},
		"sjis-win":      {content: "あ", encoding: "sjis-win", want: []byte{0x82, 0xA0}},
		"euc-jp":        {content: "あ", encoding: "EUC-JP", want: []byte{0xA4, 0xA2}},
		"utf-16le":      {content: "abc", encoding: "UTF-16LE", want: []byte{0xFF, 0xFE, 0x61, 0x00, 0x62, 0x00, 0x63, 0x00}},
		"utf-16le case": {content: "a", encoding: "utf_16le", want: []byte{0xFF, 0xFE, 0x61, 0x00}},
		"utf-16be":      {content: "ab", encoding: "UTF-16BE", want: []byte{0x00, 0x61, 0x00, 0x62}},
		"koi8-r":        {content: "Привет", encoding: "KOI8-R", want: []byte{0xF0, 0xD2, 0xC9, 0xD7, 0xC5, 0xD4}},
		"gb2312":        {content: "中文", encoding: "GB2312", want: []byte{0xD6, 0xD0, 0xCE, 0xC4}},
		"big5":          {content: "中文", encoding: "BIG5", want: []byte{0xA4, 0xA4, 0xA4, 0xE5}},
		"whatwg label":  {content: "é", encoding: "windows-1252", want: []byte{0xE9}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fb, _ := newFab(t)
			got, err := fb.FromString(tt.content).EncodeTo(tt.encoding).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeToISO2022JP(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	got, err := fb.FromString("あいう").EncodeTo("ISO-2022-JP").ReadAll()
	require.NoError(t, err)
	assert.NotEqual(t, []byte("あいう"), got)

	decoded, err := japanese.ISO2022JP.NewDecoder().Bytes(got)
	require.NoError(t, err)
	assert.Equal(t, "あいう", string(decoded))
}

func TestEncodeToErrors(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)

	f := fb.FromString("x").EncodeTo("Unknown9999")
	path, err := f.Path()
	require.ErrorIs(t, err, fabricate.ErrUnsupportedEncoding)
	assert.Empty(t, path)
	assert.False(t, f.Settings().Materialized)
	assert.Len(t, fb.Registered(), 1, "the allocated file is still registered")

	_, err = fb.FromString("😀").EncodeTo("SJIS").Path()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SJIS")
}

func TestByteOrderMarks(t *testing.T) {
	t.Parallel()
	csv := "id,name\n1,Alice\n2,Bob\n"
	tests := map[string]struct {
		build func(f *fabricate.File) *fabricate.File
		want  []byte
	}{
		"none": {
			build: func(f *fabricate.File) *fabricate.File { return f },
			want:  []byte(csv),
		},
		"utf-8 bom": {
			build: func(f *fabricate.File) *fabricate.File { return f.PrependUTF8BOM() },
			want:  append([]byte{0xEF, 0xBB, 0xBF}, csv...),
		},
		"custom bom": {
			build: func(f *fabricate.File) *fabricate.File { return f.PrependBOM([]byte{0x01, 0x02}) },
			want:  append([]byte{0x01, 0x02}, csv...),
		},
		"explicit bom survives utf-16le": {
			build: func(f *fabricate.File) *fabricate.File {
				return f.PrependBOM([]byte{0x01}).EncodeTo("UTF-16LE")
			},
			want: append([]byte{0x01}, utf16le(csv)...),
		},
		"automatic bom dropped on re-encode": {
			build: func(f *fabricate.File) *fabricate.File { return f.EncodeTo("UTF-16LE").EncodeTo("UTF-8") },
			want:  []byte(csv),
		},
		"automatic bom removed with nil": {
			build: func(f *fabricate.File) *fabricate.File { return f.EncodeTo("UTF-16LE").PrependBOM(nil) },
			want:  utf16le(csv),
		},
		"explicit bom after utf-16le is kept on re-encode": {
			build: func(f *fabricate.File) *fabricate.File {
				return f.EncodeTo("UTF-16LE").PrependUTF8BOM().EncodeTo("UTF-8")
			},
			want: append([]byte{0xEF, 0xBB, 0xBF}, csv...),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fb, _ := newFab(t)
			got, err := tt.build(fb.CSV(fabricate.From2D(people))).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func utf16le(s string) []byte {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return out
}

// ============================================================
// Directories and names
// ============================================================

func TestMoveDirectoryTo(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	other := t.TempDir()
	path, err := fb.FromString("x").MoveDirectoryTo(other).Path()
	require.NoError(t, err)
	assert.Equal(t, other, filepath.Dir(path))
	assert.Contains(t, fb.Registered(), path)
}

func TestMoveDirectoryToMissing(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	_, err := fb.FromString("x").MoveDirectoryTo(filepath.Join(t.TempDir(), "missing")).Path()
	require.Error(t, err)
	assert.Empty(t, fb.Registered())
}

func TestChangeFileNameTo(t *testing.T) {
	t.Parallel()
	fb, dir := newFab(t)
	path, err := fb.CSV(fabricate.From2D(people)).ChangeFileNameTo("people.csv").Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "people.csv"), path)
	assert.Equal(t, "id,name\n1,Alice\n2,Bob\n", readFile(t, path))
	assert.Contains(t, fb.Registered(), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the temporary name is renamed away")

	_, err = fb.FromString("y").ChangeFileNameTo("people.csv").Path()
	require.ErrorIs(t, err, fabricate.ErrAlreadyExists)
	assert.Equal(t, "id,name\n1,Alice\n2,Bob\n", readFile(t, path), "existing file untouched")
}

func TestGeneratedNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fb := fabricate.New(fabricate.WithDir(dir), fabricate.WithPrefix("fx-"))
	t.Cleanup(func() { assert.NoError(t, fb.Cleanup()) })

	a, err := fb.FromString("a").Path()
	require.NoError(t, err)
	b, err := fb.FromString("b").Path()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(filepath.Base(a), "fx-"))
	assert.True(t, strings.HasPrefix(filepath.Base(b), "fx-"))
}

func TestDefaultPrefix(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	path := fb.FromString("x").MustPath()
	assert.True(t, strings.HasPrefix(filepath.Base(path), "tst"))
}

func TestFabricatorSetDir(t *testing.T) {
	t.Parallel()
	fb, first := newFab(t)
	f := fb.FromString("x")
	before := f.MustPath()

	second := t.TempDir()
	fb.SetDir(second)
	assert.Equal(t, second, fb.Dir())
	assert.Equal(t, before, f.MustPath(), "materialized files keep their path")

	after := fb.FromString("y").MustPath()
	assert.Equal(t, first, filepath.Dir(before))
	assert.Equal(t, second, filepath.Dir(after))
}

func TestDirFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(fabricate.EnvDir, "  "+dir+"  ")
	fb := fabricate.New()
	t.Cleanup(func() { assert.NoError(t, fb.Cleanup()) })
	assert.Equal(t, dir, fb.Dir())

	path := fb.FromString("x").MustPath()
	assert.Equal(t, dir, filepath.Dir(path))

	configured := t.TempDir()
	assert.Equal(t, configured, fabricate.New(fabricate.WithDir(configured)).Dir(), "configured dir wins")
}

func TestDirFallsBackToTempDir(t *testing.T) {
	t.Setenv(fabricate.EnvDir, "")
	assert.Equal(t, os.TempDir(), fabricate.New().Dir())
}

func TestPackageLevelDefault(t *testing.T) {
	dir := t.TempDir()
	fabricate.SetDir(dir)
	t.Cleanup(func() { fabricate.SetDir("") })

	path, err := fabricate.FromString("x").Path()
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, fabricate.Registered(), path)

	path, err = fabricate.From2D(people).ToCSV().Path()
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Alice\n2,Bob\n", readFile(t, path))
}

func TestCellsToFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tests := map[string]struct {
		file *fabricate.File
		want string
	}{
		"csv": {
			file: fabricate.From2D(people).ToCSV(),
			want: "id,name\n1,Alice\n2,Bob\n",
		},
		"tsv": {
			file: fabricate.From2D(people).ToTSV(),
			want: "id\tname\n1\tAlice\n2\tBob\n",
		},
		"delimited": {
			file: fabricate.From2D(people).ToDelimited(fabricate.Dialect{Comma: ';', Quote: '"'}),
			want: "id;name\n1;Alice\n2;Bob\n",
		},
		"format json": {
			file: fabricate.From2D(people).ToFormat(fabricate.JSON),
			want: `[{"id":"1","name":"Alice"},{"id":"2","name":"Bob"}]` + "\n",
		},
		"format tsv": {
			file: fabricate.From2D(people).ToFormat(fabricate.TSV),
			want: "id\tname\n1\tAlice\n2\tBob\n",
		},
		"without trailing break": {
			file: fabricate.From2D(people).WithoutTrailingBreak().ToCSV(),
			want: "id,name\n1,Alice\n2,Bob",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.file.MoveDirectoryTo(dir).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFabricatorFormat(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	got, err := fb.Format(fabricate.From2D(people), fabricate.Markdown).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "| id  | name  |\n| --- | ----- |\n| 1   | Alice |\n| 2   | Bob   |\n", string(got))

	_, err = fb.Format(fabricate.From2D(people), fabricate.Format("xml")).Path()
	require.ErrorIs(t, err, fabricate.ErrUnsupportedFormat)
}

func TestInvalidDialectReportedByPath(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	_, err := fb.Delimited(fabricate.From2D(people), fabricate.Dialect{}).Path()
	require.ErrorIs(t, err, fabricate.ErrInvalidDialect)
}

// ============================================================
// Cleanup
// ============================================================

func TestCleanup(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fb := fabricate.New(fabricate.WithDir(dir))

	a := fb.FromString("a").MustPath()
	b := fb.CSV(fabricate.From2D(people)).ChangeFileNameTo("b.csv").MustPath()
	c := fb.FromString("c").MustPath()
	require.NoError(t, os.Remove(c))

	require.NoError(t, fb.Cleanup())
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
	assert.Empty(t, fb.Registered())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, fb.Cleanup(), "cleanup is idempotent")
}

func TestRegisteredIsCopy(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	path := fb.FromString("x").MustPath()
	got := fb.Registered()
	got[0] = "changed"
	assert.Equal(t, []string{path}, fb.Registered())
}

func TestConcurrentFiles(t *testing.T) {
	t.Parallel()
	fb, _ := newFab(t)
	const n = 32

	var wg sync.WaitGroup
	paths := make([]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths[i], errs[i] = fb.CSV(fabricate.From2D(people)).Path()
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.ElementsMatch(t, paths, fb.Registered())
}

func TestLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fb := fabricate.New(fabricate.WithDir(t.TempDir()), fabricate.WithLogger(logger))

	path := fb.FromString("x").ChangeFileNameTo("named.txt").MustPath()
	require.NoError(t, fb.Cleanup())

	out := buf.String()
	for _, msg := range []string{"fixture created", "fixture renamed", "fixture written", "fixture removed", "fixture already gone"} {
		assert.Contains(t, out, msg)
	}
	assert.Contains(t, out, path)
}
