package phono

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(pairs ...any) Vector {
	var v Vector
	for i := 0; i+1 < len(pairs); i += 2 {
		v = append(v, Feature{Name: pairs[i].(string), Value: pairs[i+1].(Value)})
	}
	return v
}

func testRecords() []Record {
	return []Record{
		{Symbol: "p", Name: "voiceless bilabial plosive", Features: vec("syl", Minus, "cons", Plus, "voice", Minus, "cont", Minus)},
		{Symbol: "b", Name: "voiced bilabial plosive", Features: vec("syl", Minus, "cons", Plus, "voice", Plus, "cont", Minus)},
		{Symbol: "f", Name: "voiceless labiodental fricative", Features: vec("syl", Minus, "cons", Plus, "voice", Minus, "cont", Plus)},
		{Symbol: "a", Name: "open front unrounded vowel", Features: vec("syl", Plus, "cons", Minus, "voice", Plus, "cont", Plus)},
		{Symbol: "ts", Name: "voiceless alveolar affricate", Features: vec("syl", Minus, "cons", Plus, "voice", Minus, "cont", Zero)},
		{Symbol: "ʦ", Name: "affricate ligature", Features: vec("syl", Minus, "cons", Plus, "voice", Minus, "cont", Zero)},
		{Symbol: "tsʰ", Name: "aspirated affricate", Features: vec("syl", Minus, "cons", Zero, "voice", Minus, "cont", Zero)},
	}
}

func TestNewInventory(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)

	assert.Equal(t, 7, inv.Len())
	assert.Equal(t, Schema{"syl", "cons", "voice", "cont"}, inv.Schema())
	assert.Equal(t, []string{"p", "b", "f", "a", "ts", "ʦ", "tsʰ"}, inv.Symbols())
	assert.Equal(t, []string{"tsʰ", "ts"}, inv.Polysymbols())
	assert.Equal(t, 3, inv.MaxSymbolLen())
	assert.Equal(t, [][]string{{"ts", "ʦ"}}, inv.Duplicates())

	seg, ok := inv.Segment("b")
	require.True(t, ok)
	assert.Equal(t, "voiced bilabial plosive", seg.Name)
	assert.True(t, seg.Known())

	sym, ok := inv.Lookup(seg.Features)
	require.True(t, ok)
	assert.Equal(t, "b", sym)

	tsFeatures, _ := inv.Features("ʦ")
	sym, _ = inv.Lookup(tsFeatures)
	assert.Equal(t, "ts", sym, "first registered symbol of a duplicate group")
	assert.Equal(t, []string{"ts", "ʦ"}, inv.DuplicateGroup(tsFeatures))
}

func TestNewInventoryReordersIntoSchema(t *testing.T) {
	recs := []Record{
		{Symbol: "p", Features: vec("cons", Plus, "voice", Minus)},
		{Symbol: "b", Features: vec("voice", Plus, "cons", Plus)},
	}
	inv, err := NewInventory(recs)
	require.NoError(t, err)
	v, _ := inv.Features("b")
	assert.Equal(t, vec("cons", Plus, "voice", Plus), v)
}

func TestDuplicateGroupsGrow(t *testing.T) {
	same := vec("cons", Plus)
	recs := []Record{
		{Symbol: "x", Features: same},
		{Symbol: "y", Features: vec("cons", Minus)},
		{Symbol: "z", Features: same},
		{Symbol: "w", Features: same},
	}
	inv, err := NewInventory(recs)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "z", "w"}}, inv.Duplicates())
}

func TestNewInventoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    error
		record  int
	}{
		{"empty", nil, ErrEmptyDatabase, 0},
		{"missing symbol", []Record{{Features: vec("cons", Plus)}}, ErrMissingField, 1},
		{"missing features", []Record{{Symbol: "p"}}, ErrMissingField, 1},
		{"schema mismatch", []Record{
			{Symbol: "p", Features: vec("cons", Plus, "voice", Minus)},
			{Symbol: "b", Features: vec("cons", Plus, "nasal", Minus)},
		}, ErrSchemaMismatch, 2},
		{"extra feature", []Record{
			{Symbol: "p", Features: vec("cons", Plus)},
			{Symbol: "b", Features: vec("cons", Plus, "voice", Plus)},
		}, ErrSchemaMismatch, 2},
		{"duplicate symbol", []Record{
			{Symbol: "p", Features: vec("cons", Plus)},
			{Symbol: "p", Features: vec("cons", Minus)},
		}, ErrDuplicateSymbol, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInventory(tt.records)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var dbErr *DatabaseError
			require.True(t, errors.As(err, &dbErr))
			assert.Equal(t, tt.record, dbErr.Record)
		})
	}
}

func TestSymbolsAreNFC(t *testing.T) {
	// "e" + combining macron must match the precomposed "ē".
	recs := []Record{{Symbol: "e\u0304", Features: vec("long", Plus)}}
	inv, err := NewInventory(recs)
	require.NoError(t, err)
	assert.Equal(t, []string{"ē"}, inv.Symbols())
	_, ok := inv.Segment("e\u0304")
	assert.True(t, ok)
}

func TestQuery(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)

	segs, err := inv.Query("f")
	require.NoError(t, err)
	assert.Equal(t, "f", segs[0].Symbol)

	segs, err = inv.Query("Voiced Bilabial Plosive")
	require.NoError(t, err)
	assert.Equal(t, "b", segs[0].Symbol)

	segs, err = inv.Query("cons +, cont -")
	require.NoError(t, err)
	var got []string
	for _, s := range segs {
		got = append(got, s.Symbol)
	}
	assert.Equal(t, []string{"p", "b"}, got)

	_, err = inv.Query("voiced uvular trill")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestParseFeatureQuery(t *testing.T) {
	fs, err := ParseFeatureQuery("cons +, cont -, nasal 0")
	require.NoError(t, err)
	assert.Equal(t, []Feature{{"cons", Plus}, {"cont", Minus}, {"nasal", Zero}}, fs)

	_, err = ParseFeatureQuery("no features here")
	assert.Error(t, err)
}

func TestSuggestNames(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)
	got := inv.SuggestNames("voiced bilabial plosiv", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "voiced bilabial plosive", got[0])
	assert.Nil(t, inv.SuggestNames("x", 0))
}

func TestStructure(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)
	var segs []Segment
	for _, s := range []string{"p", "a", "ts", "a"} {
		seg, _ := inv.Segment(s)
		segs = append(segs, seg)
	}
	segs = append(segs, Unknown("?"))
	assert.Equal(t, "CVCVS", Structure(segs))
}

func TestValueParsing(t *testing.T) {
	tests := []struct {
		raw  any
		want Value
	}{
		{true, Plus}, {false, Minus}, {0, Zero}, {1, Plus}, {-1, Minus},
		{0.0, Zero}, {"+", Plus}, {"-", Minus}, {"0", Zero}, {nil, Zero},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.raw)
		require.NoError(t, err, "raw %v", tt.raw)
		assert.Equal(t, tt.want, got, "raw %v", tt.raw)
	}
	_, err := ParseValue("maybe")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestVectorRendering(t *testing.T) {
	v := vec("cons", Plus, "voice", Minus, "nasal", Zero)
	assert.Equal(t, "[+cons -voice 0nasal]", v.String())
	assert.Equal(t, []string{"cons"}, v.True())
	assert.NotEqual(t, v.Key(), vec("cons", Plus, "voice", Plus, "nasal", Zero).Key())
}
