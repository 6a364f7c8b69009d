package similarity

import (
	"testing"

	"github.com/antzucaro/matchr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeRatio(a, b string) float64 { return Ratio([]rune(a), []rune(b)) }

func TestRatioIdentity(t *testing.T) {
	cases := [][]string{
		{},
		{"a"},
		{"p", "a", "t", "e", "r"},
		{"tʃ", "a", "tʃ"},
	}
	for _, c := range cases {
		assert.Equal(t, 1.0, Ratio(c, c), "ratio(%v, %v)", c, c)
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := []struct {
		a, b string
	}{
		{"pater", "fadar"},
		{"pater", "patēr"},
		{"abcd", "bdca"},
		{"", "x"},
		{"kitten", "sitting"},
	}
	for _, p := range pairs {
		t.Run(p.a+"/"+p.b, func(t *testing.T) {
			assert.Equal(t, runeRatio(p.a, p.b), runeRatio(p.b, p.a))
		})
	}
}

func TestRatioEdgeCases(t *testing.T) {
	assert.Equal(t, 1.0, Ratio([]int{}, []int{}))
	assert.Equal(t, 0.0, Ratio([]int{}, []int{1}))
	assert.Equal(t, 0.0, Ratio([]int{1}, nil))
	assert.Equal(t, 0.0, Ratio([]int{1, 2}, []int{3, 4}))
}

func TestRatioValues(t *testing.T) {
	// LCS("pater", "fadar") = "a", "r" -> 2*2/10
	assert.InDelta(t, 0.4, runeRatio("pater", "fadar"), 1e-9)
	// LCS("pater", "patēr") = "patr" -> 2*4/10
	assert.InDelta(t, 0.8, runeRatio("pater", "patēr"), 1e-9)
	// Different lengths: LCS("ab", "abc") = 2 -> 4/5
	assert.InDelta(t, 0.8, runeRatio("ab", "abc"), 1e-9)
}

func TestRatioAgreesWithMatchr(t *testing.T) {
	pairs := [][2]string{
		{"pater", "fadar"},
		{"pater", "patēr"},
		{"tʃeːna", "keːna"},
		{"kitten", "sitting"},
		{"abcd", "bdca"},
		{"mus", "ulk"},
	}
	for _, p := range pairs {
		t.Run(p[0]+"/"+p[1], func(t *testing.T) {
			total := len([]rune(p[0])) + len([]rune(p[1]))
			want := 2 * float64(matchr.LongestCommonSubsequence(p[0], p[1])) / float64(total)
			assert.InDelta(t, want, runeRatio(p[0], p[1]), 1e-12)
		})
	}
}

func TestRatioFunc(t *testing.T) {
	type pair struct {
		name  string
		value int
	}
	a := []pair{{"cons", 1}, {"voice", -1}, {"nasal", 0}}
	b := []pair{{"cons", 1}, {"voice", 1}, {"nasal", 0}}
	got := RatioFunc(a, b, func(x, y pair) bool { return x == y })
	require.InDelta(t, 2*2.0/6.0, got, 1e-9)
	assert.Equal(t, got, Ratio(a, b))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.5, Mean([]float64{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}
