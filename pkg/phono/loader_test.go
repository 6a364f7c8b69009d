package phono

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonDB = `[
  {"symbol": "p", "name": "voiceless bilabial plosive", "features": {"cons": true, "voice": false, "cont": false}},
  {"symbol": "b", "name": "voiced bilabial plosive", "features": {"voice": true, "cons": true, "cont": false}},
  {"symbol": "a", "features": {"cons": false, "voice": true, "cont": "+"}}
]`

const yamlDB = `# segments
- symbol: p
  name: voiceless bilabial plosive
  features: {cons: true, voice: false, cont: false}
- symbol: f
  name: voiceless labiodental fricative
  features:
    cons: true
    voice: false
    cont: true
`

const tsvDB = "# symbol\tname\tfeatures\n" +
	"p\tvoiceless bilabial plosive\t+cons -voice -cont\n" +
	"m\tbilabial nasal\t+cons +voice -cont # nasal omitted\n" +
	"ŋ\t+cons +voice 0cont\n"

func symbols(inv *Inventory) []string { return inv.Symbols() }

func TestSelectLoader(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Kind
	}{
		{"json", jsonDB, KindJSON},
		{"json with bom", "\ufeff" + jsonDB, KindJSON},
		{"yaml", yamlDB, KindYAML},
		{"tsv", tsvDB, KindTSV},
		{"gob", "\x0f\xff\x81\x02\x01\x01\x00", KindGOB},
		{"unknown falls back to json", "symbol,name", KindJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectLoader([]byte(tt.src), true).Kind())
		})
	}
}

func TestLoadFormats(t *testing.T) {
	var gobBuf bytes.Buffer
	require.NoError(t, EncodeGob(&gobBuf, []Record{
		{Symbol: "t", Features: vec("cons", Plus, "voice", Minus)},
		{Symbol: "d", Features: vec("cons", Plus, "voice", Plus)},
	}))

	tests := []struct {
		name    string
		blob    []byte
		symbols []string
		schema  Schema
	}{
		{"json", []byte(jsonDB), []string{"p", "b", "a"}, Schema{"cons", "voice", "cont"}},
		{"yaml", []byte(yamlDB), []string{"p", "f"}, Schema{"cons", "voice", "cont"}},
		{"tsv", []byte(tsvDB), []string{"p", "m", "ŋ"}, Schema{"cons", "voice", "cont"}},
		{"gob", gobBuf.Bytes(), []string{"t", "d"}, Schema{"cons", "voice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := LoadBlobs(MergeModeNoOverride, tt.blob)
			require.NoError(t, err)
			assert.Equal(t, tt.symbols, symbols(inv))
			assert.Equal(t, tt.schema, inv.Schema())
		})
	}
}

func TestLoadJSONValues(t *testing.T) {
	inv, err := LoadBlobs(MergeModeNoOverride, []byte(jsonDB))
	require.NoError(t, err)
	v, _ := inv.Features("a")
	assert.Equal(t, vec("cons", Minus, "voice", Plus, "cont", Plus), v)
	v, _ = inv.Features("b")
	assert.Equal(t, vec("cons", Plus, "voice", Plus, "cont", Minus), v)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"truncated json", `[{"symbol": "p", "features": {"cons": true}`, ErrMalformedDatabase},
		{"not an array", `{"symbol": "p"}`, ErrMalformedDatabase},
		{"missing features", `[{"symbol": "p"}]`, ErrMissingField},
		{"missing symbol", `[{"features": {"cons": true}}]`, ErrMissingField},
		{"bad value", `[{"symbol": "p", "features": {"cons": "maybe"}}]`, ErrMalformedDatabase},
		{"schema mismatch", `[{"symbol": "p", "features": {"cons": true}}, {"symbol": "b", "features": {"voice": true}}]`, ErrSchemaMismatch},
		{"duplicate in one source", "p\t+cons\np\t-cons\n", ErrDuplicateSymbol},
		{"empty", `[]`, ErrEmptyDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBlobs(MergeModeNoOverride, []byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var dbErr *DatabaseError
			assert.ErrorAs(t, err, &dbErr)
		})
	}
}

func TestMergeModes(t *testing.T) {
	base := "p\t+cons -voice\nb\t+cons +voice\n"
	override := "b\t-cons +voice\nm\t+cons +voice # same as base b\n"
	fsys := fstest.MapFS{
		"base.tsv":     {Data: []byte(base)},
		"override.tsv": {Data: []byte(override)},
	}

	t.Run("no override", func(t *testing.T) {
		inv, err := LoadPaths(fsys, MergeModeNoOverride, "base.tsv", "override.tsv")
		require.NoError(t, err)
		assert.Equal(t, []string{"p", "b", "m"}, symbols(inv))
		v, _ := inv.Features("b")
		assert.Equal(t, vec("cons", Plus, "voice", Plus), v)
		assert.Equal(t, [][]string{{"b", "m"}}, inv.Duplicates())
	})

	t.Run("replace", func(t *testing.T) {
		inv, err := LoadPaths(fsys, MergeModeReplace, "base.tsv", "override.tsv")
		require.NoError(t, err)
		assert.Equal(t, []string{"p", "b", "m"}, symbols(inv))
		v, _ := inv.Features("b")
		assert.Equal(t, vec("cons", Minus, "voice", Plus), v)
		assert.Empty(t, inv.Duplicates())
	})

	t.Run("prepend", func(t *testing.T) {
		inv, err := LoadPaths(fsys, MergeModePrepend, "base.tsv", "override.tsv")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "m", "p"}, symbols(inv))
		v, _ := inv.Features("b")
		assert.Equal(t, vec("cons", Minus, "voice", Plus), v)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPaths(fsys, MergeModeNoOverride, "base.tsv", "nope.tsv")
		assert.Error(t, err)
	})
}

func TestParseMergeMode(t *testing.T) {
	for _, m := range []MergeMode{MergeModeNoOverride, MergeModeReplace, MergeModePrepend} {
		got, err := ParseMergeMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMergeMode("append")
	assert.Error(t, err)
}

func TestBuilderEncoding(t *testing.T) {
	// "ç" in ISO-8859-1.
	latin := []byte("\xe7\t+cons -voice\n")
	b := NewBuilder(MergeModeNoOverride)
	b.Encoding = "iso-8859-1"
	require.NoError(t, b.AddBlob("latin.tsv", latin))
	inv, err := b.Inventory()
	require.NoError(t, err)
	assert.Equal(t, []string{"ç"}, symbols(inv))
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "segments.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, SegmentsTableSQL)
	require.NoError(t, err)
	for _, row := range [][3]string{
		{"p", "voiceless bilabial plosive", `{"cons": true, "voice": false}`},
		{"b", "", `{"voice": true, "cons": true}`},
	} {
		_, err = db.ExecContext(ctx, `INSERT INTO segments (symbol, name, features) VALUES (?, ?, ?)`, row[0], row[1], row[2])
		require.NoError(t, err)
	}

	records, err := ReadSQLite(ctx, db)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "voiceless bilabial plosive", records[0].Name)
	require.NoError(t, db.Close())

	b := NewBuilder(MergeModeNoOverride)
	require.NoError(t, b.AddBlob("extra.tsv", []byte("m\t+cons +voice\n")))
	require.NoError(t, b.AddFile(ctx, path))
	inv, err := b.Inventory()
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "p", "b"}, symbols(inv))
	assert.Equal(t, Schema{"cons", "voice"}, inv.Schema())
}
