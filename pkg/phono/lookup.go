package phono

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// ErrNoMatch is returned by Query when nothing matches.
var ErrNoMatch = errors.New("phono: no matching segment")

var featureQueryRe = regexp.MustCompile(`(\w+)\s*([+\-0])`)

// ParseFeatureQuery parses the "name value" notation used to look up
// segments by features, e.g. "cons +, cont -" or "voice -".
func ParseFeatureQuery(q string) ([]Feature, error) {
	matches := featureQueryRe.FindAllStringSubmatch(q, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("feature query %q: expected \"name +|-|0\"", q)
	}
	out := make([]Feature, 0, len(matches))
	for _, m := range matches {
		v, err := ParseSign(m[2])
		if err != nil {
			return nil, err
		}
		out = append(out, Feature{Name: m[1], Value: v})
	}
	return out, nil
}

// LookupName returns the segment whose descriptive name is name
// (case-insensitive).
func (inv *Inventory) LookupName(name string) (Segment, bool) {
	i, ok := inv.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Segment{}, false
	}
	return inv.segments[i], true
}

// MatchFeatures returns every segment that carries all the queried
// (name, value) pairs, in registration order.
func (inv *Inventory) MatchFeatures(query []Feature) []Segment {
	if len(query) == 0 {
		return nil
	}
	var out []Segment
	for _, seg := range inv.segments {
		all := true
		for _, q := range query {
			if v, ok := seg.Features.Get(q.Name); !ok || v != q.Value {
				all = false
				break
			}
		}
		if all {
			out = append(out, seg)
		}
	}
	return out
}

// Query resolves a free-form lookup: a symbol, a descriptive name, or a
// feature query. Symbols take precedence over names, names over features.
func (inv *Inventory) Query(q string) ([]Segment, error) {
	q = strings.TrimSpace(q)
	if seg, ok := inv.Segment(q); ok {
		return []Segment{seg}, nil
	}
	if seg, ok := inv.LookupName(q); ok {
		return []Segment{seg}, nil
	}
	if fs, err := ParseFeatureQuery(q); err == nil {
		if segs := inv.MatchFeatures(fs); len(segs) > 0 {
			return segs, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoMatch, q)
}

// SuggestNames returns up to n segment names closest to query by
// Jaro-Winkler similarity, best first.
func (inv *Inventory) SuggestNames(query string, n int) []string {
	if n <= 0 {
		return nil
	}
	type scored struct {
		name  string
		score float64
	}
	query = strings.ToLower(strings.TrimSpace(query))
	var all []scored
	for _, seg := range inv.segments {
		if seg.Name == "" {
			continue
		}
		all = append(all, scored{seg.Name, matchr.JaroWinkler(query, strings.ToLower(seg.Name), false)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.name
	}
	return out
}

// Structure classes returned by StructureOf.
const (
	Vowel     = 'V'
	Consonant = 'C'
	Other     = 'S'
)

// StructureOf classifies a vector as a vowel (syl +), a consonant
// (cons +) or anything else. Unknown segments are classified as Other.
func StructureOf(v Vector) rune {
	if val, ok := v.Get("syl"); ok && val == Plus {
		return Vowel
	}
	if val, ok := v.Get("cons"); ok && val == Plus {
		return Consonant
	}
	return Other
}

// Structure returns the CV skeleton of a sequence of segments, e.g. "CVCVC".
func Structure(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteRune(StructureOf(s.Features))
	}
	return b.String()
}
