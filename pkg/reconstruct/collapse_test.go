package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseTrivial(t *testing.T) {
	e := newEngine(t)

	_, err := e.Collapse(nil)
	assert.ErrorIs(t, err, ErrNoForms)
	_, err = e.Collapse([]string{" "})
	assert.ErrorIs(t, err, ErrNoForms)

	res, err := e.Collapse([]string{"pater", ""})
	require.NoError(t, err)
	assert.Equal(t, "pater", res.Form)
	assert.Empty(t, res.Steps)
	assert.False(t, res.FellBack)
}

func TestCollapseTwoForms(t *testing.T) {
	e := newEngine(t)
	res, err := e.Collapse([]string{"pater", "patēr"})
	require.NoError(t, err)
	assert.Equal(t, "pater", res.Form)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, Step{A: "pater", B: "patēr", Ratio: res.Steps[0].Ratio, Merged: "pater"}, res.Steps[0])
	assert.Equal(t, "pater", res.Reference)
	assert.Zero(t, res.Threshold, "no pairwise level ran")
}

func TestCollapseCognates(t *testing.T) {
	e := newEngine(t)
	res, err := e.Collapse([]string{"pater", "fadar", "patēr"})
	require.NoError(t, err)
	assert.Equal(t, "pater", res.Form)
	assert.False(t, res.FellBack)
	assert.InDelta(t, 0.9578947368421052, res.Threshold, 1e-9)
	assert.Equal(t, "pater", res.Reference)

	require.Len(t, res.Steps, 2)
	assert.Equal(t, "pater", res.Steps[0].A)
	assert.Equal(t, "patēr", res.Steps[0].B)
	assert.InDelta(t, 0.9894736842105264, res.Steps[0].Ratio, 1e-9)
	assert.Equal(t, "pater", res.Steps[1].A, "merged forms come first")
	assert.Equal(t, "fadar", res.Steps[1].B)
	assert.Less(t, res.Steps[1].Ratio, res.Threshold, "the last pair is merged below the threshold")
}

func TestCollapseFallsBack(t *testing.T) {
	e := newEngine(t)
	forms := []string{"pater", "mus", "ulk", "kaŋ", "wer"}
	res, err := e.Collapse(forms)
	require.NoError(t, err)
	assert.True(t, res.FellBack)
	assert.InDelta(t, firstLevelThreshold(e, forms), res.Threshold, 1e-12)
	assert.InDelta(t, 0.5403508771929825, res.Threshold, 1e-9)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, "mus", res.Steps[0].Merged)
	assert.Equal(t, "(ɨ)lk", res.Steps[1].Merged)
	assert.Equal(t, "mus", res.Reference)
	assert.Equal(t, "mus", res.Form)
}

func TestCollapseTerminates(t *testing.T) {
	e := newEngine(t)
	inputs := [][]string{
		{"pater", "fadar", "patēr", "pitar", "fæder", "vater"},
		{"a", "b", "c", "d", "e", "f", "g"},
		{"mus", "mus", "mus", "mus"},
		{"tʃeːna", "keːna", "ʦena", "sena", "kʷena"},
	}
	for _, forms := range inputs {
		res, err := e.Collapse(forms)
		require.NoError(t, err, "%v", forms)
		assert.NotEmpty(t, res.Form)
		assert.LessOrEqual(t, len(res.Steps), len(forms)-1, "%v", forms)
		if len(forms) > 2 {
			assert.Greater(t, res.Threshold, 0.0)
		}
	}
}

func TestCollapseThresholdIsFrozen(t *testing.T) {
	e := newEngine(t)
	forms := []string{"pater", "fadar", "patēr", "pitar", "vater"}
	res, err := e.Collapse(forms)
	require.NoError(t, err)

	assert.InDelta(t, firstLevelThreshold(e, forms), res.Threshold, 1e-12)
}

// firstLevelThreshold is the mean ratio of every pair of forms.
func firstLevelThreshold(e *Engine, forms []string) float64 {
	var sum float64
	pairs := scorePairs(e.segmentsOf(forms))
	for _, p := range pairs {
		sum += p.ratio
	}
	return sum / float64(len(pairs))
}
