package phono

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Inventory is an immutable, ordered segment database.
//
// Registration order matters: it decides which symbol an exact feature
// vector maps back to (first registered wins) and how ties are broken by
// the resolver's fallback. An Inventory is safe for concurrent reads.
type Inventory struct {
	schema   Schema
	segments []Segment
	bySymbol map[string]int
	byName   map[string]int
	// inverse maps a vector key to the first registered segment index.
	inverse     map[string]int
	polysymbols []string
	maxLen      int
	duplicates  [][]string
	// groupOf maps a vector key to its index in duplicates.
	groupOf map[string]int
}

// NewInventory validates records and builds an inventory.
//
// The schema is taken from the first record. Every record must carry a
// symbol, at least one feature, and exactly the schema's feature names.
// Symbols are NFC-normalized and must be unique.
func NewInventory(records []Record) (*Inventory, error) {
	if len(records) == 0 {
		return nil, &DatabaseError{Err: ErrEmptyDatabase}
	}
	inv := &Inventory{
		segments: make([]Segment, 0, len(records)),
		bySymbol: make(map[string]int, len(records)),
		byName:   make(map[string]int, len(records)),
		inverse:  make(map[string]int, len(records)),
		groupOf:  make(map[string]int),
	}
	for i, rec := range records {
		seg, err := inv.validate(i+1, rec)
		if err != nil {
			return nil, err
		}
		inv.register(seg)
	}
	inv.indexPolysymbols()
	return inv, nil
}

func (inv *Inventory) validate(pos int, rec Record) (Segment, error) {
	symbol := NormalizeSymbol(rec.Symbol)
	if symbol == "" {
		return Segment{}, &DatabaseError{Record: pos, Field: "symbol", Err: ErrMissingField}
	}
	if len(rec.Features) == 0 {
		return Segment{}, &DatabaseError{Record: pos, Symbol: symbol, Field: "features", Err: ErrMissingField}
	}
	if _, dup := inv.bySymbol[symbol]; dup {
		return Segment{}, &DatabaseError{Record: pos, Symbol: symbol, Field: "symbol", Err: ErrDuplicateSymbol}
	}
	if inv.schema == nil {
		inv.schema = schemaOf(rec.Features)
		if _, err := inv.schema.conform(rec.Features); err != nil {
			return Segment{}, &DatabaseError{Record: pos, Symbol: symbol, Field: "features", Err: err}
		}
	}
	vec, err := inv.schema.conform(rec.Features)
	if err != nil {
		return Segment{}, &DatabaseError{Record: pos, Symbol: symbol, Field: "features", Err: err}
	}
	return Segment{Symbol: symbol, Name: strings.TrimSpace(rec.Name), Features: vec}, nil
}

// register appends seg and maintains the inverse index and the duplicate
// groups. A vector already seen opens a group with the first registered
// symbol; later matches join that group.
func (inv *Inventory) register(seg Segment) {
	idx := len(inv.segments)
	inv.segments = append(inv.segments, seg)
	inv.bySymbol[seg.Symbol] = idx
	if seg.Name != "" {
		name := strings.ToLower(seg.Name)
		if _, taken := inv.byName[name]; !taken {
			inv.byName[name] = idx
		}
	}
	key := seg.Features.Key()
	first, seen := inv.inverse[key]
	if !seen {
		inv.inverse[key] = idx
		return
	}
	if g, ok := inv.groupOf[key]; ok {
		inv.duplicates[g] = append(inv.duplicates[g], seg.Symbol)
		return
	}
	inv.groupOf[key] = len(inv.duplicates)
	inv.duplicates = append(inv.duplicates, []string{inv.segments[first].Symbol, seg.Symbol})
}

func (inv *Inventory) indexPolysymbols() {
	for _, seg := range inv.segments {
		n := utf8.RuneCountInString(seg.Symbol)
		if n > inv.maxLen {
			inv.maxLen = n
		}
		if n > 1 {
			inv.polysymbols = append(inv.polysymbols, seg.Symbol)
		}
	}
	sort.SliceStable(inv.polysymbols, func(i, j int) bool {
		return utf8.RuneCountInString(inv.polysymbols[i]) > utf8.RuneCountInString(inv.polysymbols[j])
	})
}

// Len returns the number of segments.
func (inv *Inventory) Len() int { return len(inv.segments) }

// Schema returns a copy of the feature schema.
func (inv *Inventory) Schema() Schema { return append(Schema(nil), inv.schema...) }

// Segments returns the segments in registration order.
// The returned slice must not be modified.
func (inv *Inventory) Segments() []Segment { return inv.segments }

// Symbols returns every symbol in registration order.
func (inv *Inventory) Symbols() []string {
	out := make([]string, len(inv.segments))
	for i, s := range inv.segments {
		out[i] = s.Symbol
	}
	return out
}

// Charset returns the runes used by the inventory's symbols,
// deduplicated and sorted by rune value.
func (inv *Inventory) Charset() string {
	uniq := make(map[rune]struct{})
	for _, s := range inv.segments {
		for _, r := range s.Symbol {
			uniq[r] = struct{}{}
		}
	}
	runes := make([]rune, 0, len(uniq))
	for r := range uniq {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

// Segment returns the segment registered for symbol.
func (inv *Inventory) Segment(symbol string) (Segment, bool) {
	i, ok := inv.bySymbol[NormalizeSymbol(symbol)]
	if !ok {
		return Segment{}, false
	}
	return inv.segments[i], true
}

// Features returns the feature vector of symbol.
func (inv *Inventory) Features(symbol string) (Vector, bool) {
	seg, ok := inv.Segment(symbol)
	return seg.Features, ok
}

// Lookup returns the first registered symbol carrying exactly v.
func (inv *Inventory) Lookup(v Vector) (string, bool) {
	i, ok := inv.inverse[v.Key()]
	if !ok {
		return "", false
	}
	return inv.segments[i].Symbol, true
}

// DuplicateGroup returns the duplicate group v belongs to, or nil.
func (inv *Inventory) DuplicateGroup(v Vector) []string {
	g, ok := inv.groupOf[v.Key()]
	if !ok {
		return nil
	}
	return inv.duplicates[g]
}

// Polysymbols lists the symbols spanning more than one rune, longest first
// (registration order among equal lengths).
func (inv *Inventory) Polysymbols() []string { return inv.polysymbols }

// MaxSymbolLen is the rune length of the longest symbol.
func (inv *Inventory) MaxSymbolLen() int { return inv.maxLen }

// Duplicates lists the groups of symbols that share one feature vector,
// each group in registration order.
func (inv *Inventory) Duplicates() [][]string { return inv.duplicates }

func (inv *Inventory) String() string {
	return fmt.Sprintf("Inventory(%d segments, %d features, %d duplicate groups)",
		len(inv.segments), len(inv.schema), len(inv.duplicates))
}
