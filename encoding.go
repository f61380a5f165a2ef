package fabricate

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// UTF8 is the canonical encoding. Content in this encoding is written
// without transcoding.
const UTF8 = "UTF-8"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// encodings maps normalized names to transcoders. Names not listed here are
// looked up as WHATWG labels.
var encodings = map[string]encoding.Encoding{
	"SJIS":        japanese.ShiftJIS,
	"SJIS-WIN":    japanese.ShiftJIS,
	"SHIFT-JIS":   japanese.ShiftJIS,
	"CP932":       japanese.ShiftJIS,
	"MS932":       japanese.ShiftJIS,
	"WINDOWS-31J": japanese.ShiftJIS,
	"EUC-JP":      japanese.EUCJP,
	"EUCJP-WIN":   japanese.EUCJP,
	"ISO-2022-JP": japanese.ISO2022JP,
	"JIS":         japanese.ISO2022JP,
	"UTF-16LE":    unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":    unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"UTF-16":      unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"GB2312":      simplifiedchinese.GBK,
	"EUC-CN":      simplifiedchinese.GBK,
	"GBK":         simplifiedchinese.GBK,
	"CP936":       simplifiedchinese.GBK,
	"GB18030":     simplifiedchinese.GB18030,
	"HZ":          simplifiedchinese.HZGB2312,
	"BIG5":        traditionalchinese.Big5,
	"BIG-5":       traditionalchinese.Big5,
	"CP950":       traditionalchinese.Big5,
	"KOI8-R":      charmap.KOI8R,
	"KOI8-U":      charmap.KOI8U,
}

func normalizeEncoding(name string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "_", "-")
}

func isUTF8(name string) bool {
	switch normalizeEncoding(name) {
	case "UTF-8", "UTF8":
		return true
	}
	return false
}

func isUTF16LE(name string) bool {
	return normalizeEncoding(name) == "UTF-16LE"
}

// LookupEncoding returns the transcoder for name. Names are matched without
// regard to case. UTF-8 returns a nil Encoding because no transcoding is
// needed. Unknown names return [ErrUnsupportedEncoding].
func LookupEncoding(name string) (encoding.Encoding, error) {
	if isUTF8(name) {
		return nil, nil
	}
	if enc, ok := encodings[normalizeEncoding(name)]; ok {
		return enc, nil
	}
	if enc, err := htmlindex.Get(strings.TrimSpace(name)); err == nil && enc != encoding.Replacement {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
}

// transcode converts UTF-8 text to the named encoding.
func transcode(s, name string) ([]byte, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode to %s: %w", name, err)
	}
	return out, nil
}
