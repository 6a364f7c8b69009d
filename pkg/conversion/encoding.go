// Package conversion decodes legacy-encoded database sources to UTF-8.
//
// Encodings are named with WHATWG labels ("windows-1252", "utf-16le",
// "shift_jis", ...). A few labels that the WHATWG index folds into
// another encoding, or does not know at all, are mapped explicitly so
// that "iso-8859-1" really means Latin-1 and "macroman" is available.
package conversion

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var aliases = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"latin-1":      charmap.ISO8859_1,
	"macroman":     charmap.Macintosh,
	"maccyrillic":  charmap.MacintoshCyrillic,
	"utf-16le-bom": unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM),
	"utf-16be-bom": unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM),
}

// IsUTF8 reports whether name designates UTF-8 (the empty name included).
func IsUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// Lookup returns the encoding registered under name (case-insensitive).
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if IsUTF8(key) {
		return unicode.UTF8, nil
	}
	if enc, ok := aliases[key]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding: %s", name)
	}
	return enc, nil
}

// NewReader wraps r so that it yields UTF-8. UTF-8 sources are returned
// unchanged apart from a leading byte order mark.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	if IsUTF8(name) {
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop)), nil
	}
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
