package tokenize

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Notation rewrites forms written in a house notation into the symbols of
// the inventory before they are scanned, e.g. "ʧ" to "tʃ" or "c" to "ts".
//
// Rules are loaded from JSON:
//
//	{
//	  "prefixes":     {"h": ""},
//	  "suffixes":     {"-": ""},
//	  "replacements": {"ʧ": "tʃ", "ç": "ts"}
//	}
//
// Each section is applied in turn: prefixes, then suffixes, then
// replacements. Within a section longer keys go first, ties in key order,
// so the result does not depend on map iteration order.
type Notation struct {
	Prefixes     map[string]string `json:"prefixes"`
	Suffixes     map[string]string `json:"suffixes"`
	Replacements map[string]string `json:"replacements"`
}

// LoadNotation reads notation rules from a JSON file.
func LoadNotation(path string) (*Notation, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseNotation(b)
}

// ParseNotation decodes notation rules from JSON bytes.
func ParseNotation(blob []byte) (*Notation, error) {
	n := &Notation{}
	if err := json.Unmarshal(blob, n); err != nil {
		return nil, fmt.Errorf("decode notation: %w", err)
	}
	return n, nil
}

// Apply rewrites s.
func (n *Notation) Apply(s string) string {
	if n == nil {
		return s
	}
	s = norm.NFC.String(s)
	for _, k := range orderedKeys(n.Prefixes) {
		if key := norm.NFC.String(k); key != "" && strings.HasPrefix(s, key) {
			s = n.Prefixes[k] + s[len(key):]
			break
		}
	}
	for _, k := range orderedKeys(n.Suffixes) {
		if key := norm.NFC.String(k); key != "" && strings.HasSuffix(s, key) {
			s = s[:len(s)-len(key)] + n.Suffixes[k]
			break
		}
	}
	keys := orderedKeys(n.Replacements)
	if len(keys) > 0 {
		pairs := make([]string, 0, 2*len(keys))
		for _, k := range keys {
			if k == "" {
				continue
			}
			pairs = append(pairs, norm.NFC.String(k), n.Replacements[k])
		}
		// A single Replacer pass: replaced text is never rewritten again.
		s = strings.NewReplacer(pairs...).Replace(s)
	}
	return norm.NFC.String(s)
}

func orderedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j])
		if li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})
	return keys
}
