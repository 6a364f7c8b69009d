package reconstruct

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temporal-IPA/protoform/pkg/align"
	"github.com/temporal-IPA/protoform/pkg/ipa"
	"github.com/temporal-IPA/protoform/pkg/phono"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(ipa.Default(), opts...)
}

// xyzInventory holds three segments whose majority vote over
// {p, q, r} is a vector no segment carries.
func xyzInventory(t *testing.T) *phono.Inventory {
	t.Helper()
	v := func(x, y, z phono.Value) phono.Vector {
		return phono.Vector{{Name: "x", Value: x}, {Name: "y", Value: y}, {Name: "z", Value: z}}
	}
	inv, err := phono.NewInventory([]phono.Record{
		{Symbol: "p", Features: v(phono.Plus, phono.Minus, phono.Minus)},
		{Symbol: "q", Features: v(phono.Minus, phono.Plus, phono.Minus)},
		{Symbol: "r", Features: v(phono.Plus, phono.Plus, phono.Plus)},
	})
	require.NoError(t, err)
	return inv
}

func TestReconstructSingleForm(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		form     string
		want     string
		segments []string
		// ambiguous lists the duplicate group of every ambiguity notice.
		ambiguous [][]string
	}{
		{"pater", "pater", []string{"p", "a", "t", "e", "r"}, nil},
		{"tʃeːna", "tʃeːna", []string{"tʃ", "eː", "n", "a"}, [][]string{{"tʃ", "ʧ"}, {"eː", "ē"}}},
		{"pa ter", "pater", []string{"p", "a", "t", "e", "r"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			res, err := e.Reconstruct([]string{tt.form})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Form)
			assert.Equal(t, tt.segments, res.Segments)
			assert.False(t, res.Uncertain())
			require.Len(t, res.Ratios, 1)
			assert.Equal(t, 1.0, res.Ratios[0].Ratio)
			var groups [][]string
			for _, a := range res.Diagnostics.Ambiguities {
				groups = append(groups, a.Symbols)
			}
			assert.Equal(t, tt.ambiguous, groups)
			assert.Empty(t, res.Diagnostics.Unmatched)
			assert.Empty(t, res.Diagnostics.Approximations)
			assert.Empty(t, res.Diagnostics.Skipped)
		})
	}
}

func TestReconstructDuplicateGroup(t *testing.T) {
	e := newEngine(t)
	res, err := e.Reconstruct([]string{"ʧa"})
	require.NoError(t, err)
	assert.Equal(t, "tʃa", res.Form, "first registered symbol of the group wins")
	assert.Len(t, res.Segments, 2)
	require.Len(t, res.Diagnostics.Ambiguities, 1)
	notice := res.Diagnostics.Ambiguities[0]
	assert.Equal(t, "tʃ", notice.Symbol)
	assert.Equal(t, []string{"tʃ", "ʧ"}, notice.Symbols)
}

func TestReconstructUnknownSymbol(t *testing.T) {
	e := newEngine(t)
	res, err := e.Reconstruct([]string{"kʷa"})
	require.NoError(t, err)
	assert.Equal(t, "k(ʷ)a", res.Form)
	assert.Equal(t, []string{"k", "(ʷ)", "a"}, res.Segments)
	assert.True(t, res.Uncertain())
	require.Len(t, res.Diagnostics.Unmatched, 1)
	assert.Equal(t, "ʷ", res.Diagnostics.Unmatched[0].Symbol)
}

func TestReconstructCognates(t *testing.T) {
	e := newEngine(t)
	res, err := e.Reconstruct([]string{"pater", "fadar", "patēr"})
	require.NoError(t, err)
	assert.Equal(t, "pater", res.Form)
	assert.Equal(t, []string{"p", "a", "t", "e", "r"}, res.Segments)
	assert.Equal(t, 2, res.Diagnostics.Pruned, "f and d disagree with their columns")
	assert.Empty(t, res.Diagnostics.Moves)
	assert.Empty(t, res.Diagnostics.Skipped)

	require.Len(t, res.Ratios, 3)
	assert.Equal(t, "fadar", res.Ratios[1].Form)
	assert.InDelta(t, 1.0, res.Ratios[0].Ratio, 1e-9)
	assert.InDelta(t, 0.4, res.Ratios[1].Ratio, 1e-9)
	assert.InDelta(t, 0.8, res.Ratios[2].Ratio, 1e-9)
}

func TestReconstructApproximation(t *testing.T) {
	e := New(xyzInventory(t))
	res, err := e.Reconstruct([]string{"p", "q", "r"})
	require.NoError(t, err)
	assert.Equal(t, "(p)", res.Form)
	require.Len(t, res.Diagnostics.Approximations, 1)
	approx := res.Diagnostics.Approximations[0]
	assert.Equal(t, 0, approx.Column)
	assert.Equal(t, "p", approx.Symbol)
	assert.InDelta(t, 2.0/3.0, approx.Ratio, 1e-9)
	assert.Equal(t, "[+x +y -z]", approx.Theoretical.String())
}

func TestReconstructNoForms(t *testing.T) {
	e := newEngine(t)
	for _, forms := range [][]string{nil, {}, {"", "  "}} {
		_, err := e.Reconstruct(forms)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoForms)
		var rerr *ReconstructionError
		assert.True(t, errors.As(err, &rerr))
	}

	res, err := e.Reconstruct([]string{"pater", " ", ""})
	require.NoError(t, err)
	assert.Equal(t, "pater", res.Form, "blank forms are ignored")
}

func TestRenderSkipsEmptyColumns(t *testing.T) {
	e := newEngine(t)
	inv := e.Inventory()
	p, ok := inv.Segment("p")
	require.True(t, ok)

	al := align.Alignment{
		Columns: []align.Column{
			{Members: []align.Member{{Segment: p}}, Theoretical: p.Features},
			{Pruned: []align.Member{{Segment: p}}},
			{Members: []align.Member{
				{Form: 0, Segment: phono.Unknown("ʷ")},
				{Form: 1, Segment: phono.Unknown("x")},
				{Form: 2, Segment: phono.Unknown("x")},
			}},
		},
		Skipped: []int{1},
	}
	res, err := e.render([]string{"a", "b"}, nil, al)
	require.NoError(t, err)
	assert.Equal(t, "p(x)", res.Form)
	assert.Equal(t, []int{1}, res.Diagnostics.Skipped)
	assert.Equal(t, 1, res.Diagnostics.Pruned)

	_, err = e.render([]string{"a"}, nil, align.Alignment{
		Columns: []align.Column{{}, {}},
		Skipped: []int{0, 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyReconstruction)
	assert.Contains(t, err.Error(), "{a}")
}

func TestSimilarity(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, 1.0, e.Similarity("(b)a", "ba"))
	assert.InDelta(t, 0.8, e.Similarity("pater", "pəter"), 1e-9)
	assert.Equal(t, e.Similarity("pater", "fadar"), e.Similarity("fadar", "pater"))
}

func TestFormSimilarity(t *testing.T) {
	e := newEngine(t)
	seg := func(s string) []phono.Segment { return e.Tokenizer().Tokenize(s).Segments() }
	assert.Equal(t, 1.0, FormSimilarity(nil, nil))
	assert.Equal(t, 0.0, FormSimilarity(seg("pa"), nil))
	assert.Equal(t, 1.0, FormSimilarity(seg("pater"), seg("pater")))
	assert.InDelta(t, 0.4, FormSimilarity(seg("pa"), seg("pater")), 1e-9, "missing positions count as mismatches")
	assert.Equal(t, FormSimilarity(seg("pater"), seg("fadar")), FormSimilarity(seg("fadar"), seg("pater")))
}

func TestDiagnosticsMerge(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.Empty())
	d.Merge(Diagnostics{Skipped: []int{2}, Pruned: 1})
	d.Merge(Diagnostics{Skipped: []int{0}, Dropped: 3})
	assert.Equal(t, []int{2, 0}, d.Skipped)
	assert.Equal(t, 1, d.Pruned)
	assert.Equal(t, 3, d.Dropped)
	assert.False(t, d.Empty())
}
