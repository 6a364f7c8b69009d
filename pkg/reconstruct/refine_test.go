package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temporal-IPA/protoform/pkg/lexeme"
)

func cognates(root int, answer string, forms ...string) lexeme.CognateSet {
	langs := []string{"lat", "got", "grc", "san"}
	set := lexeme.CognateSet{Root: root, Answer: answer}
	for i, f := range forms {
		set.Forms = append(set.Forms, lexeme.Form{Text: f, Lang: langs[i%len(langs)]})
	}
	return set
}

func TestRefine(t *testing.T) {
	e := newEngine(t)
	sets := []lexeme.CognateSet{
		cognates(0, "", "pater", "fadar", "patēr"),
		cognates(1, "", "pater", "fadar", "patēr"),
	}

	got, err := e.Refine(sets, []string{"pater", "fadar"}, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pater", got[0].Form())
	assert.Equal(t, "fadar", got[1].Form(), "only the forms agreeing with the provisional reconstruction are kept")
	assert.Equal(t, got[0].RunID, got[1].RunID)
	assert.Equal(t, 1, got[1].Index)

	again, err := e.Refine(sets[1:], []string{"fadar"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "fadar", again[0].Form())

	zero, err := e.Refine(sets[:1], []string{"pater"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "pater", zero[0].Form())
}

func TestRefineKeepsGoingAfterAFailedSet(t *testing.T) {
	e := newEngine(t)
	sets := []lexeme.CognateSet{
		cognates(0, "", "pater", "fadar"),
		cognates(1, ""),
		cognates(2, "", "mater", "modar"),
	}

	got, err := e.Refine(sets, []string{"pater", "", "mater"}, 1)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.NoError(t, got[0].Err)
	assert.NotEmpty(t, got[0].Form())
	assert.ErrorIs(t, got[1].Err, ErrNoForms)
	assert.Empty(t, got[1].Form())
	assert.Equal(t, 1, got[1].Set.Root)
	assert.NoError(t, got[2].Err)
	assert.NotEmpty(t, got[2].Form())
}

func TestRefineMismatch(t *testing.T) {
	e := newEngine(t)
	_, err := e.Refine([]lexeme.CognateSet{cognates(0, "", "pater")}, nil, 1)
	assert.ErrorIs(t, err, ErrMismatchedInput)
}

func TestBias(t *testing.T) {
	e := newEngine(t)
	got := e.bias([]string{"pater", "fadar", "patēr"}, "pater")
	// pater: 1.0 -> 10 copies, patēr: 0.8 -> 8 copies, fadar: 0.4 is below
	// the mean and dropped.
	require.Len(t, got, 19)
	assert.Equal(t, "pater", got[0])
	assert.Equal(t, "patēr", got[10])
	assert.Equal(t, "pater", got[18])
	assert.NotContains(t, got, "fadar")
}

func TestRetentionThresholdAndScore(t *testing.T) {
	e := newEngine(t)
	sets := []lexeme.CognateSet{
		cognates(0, "pəter", "pater", "fadar"),
		cognates(1, "mater", "mater", "modar"),
		cognates(2, "", "ulk", "kaŋ"),
	}
	answers := []string{"pəter", "mater", ""}

	// lat: mean(0.8, 1.0) = 0.9; got: mean(0.2, 0.6) = 0.4
	threshold := e.RetentionThreshold(sets, answers)
	assert.InDelta(t, 0.65, threshold, 1e-9)

	rep := e.Score([]string{"pater", "modar", "ulk"}, answers, threshold)
	assert.Equal(t, 2, rep.Total, "items without an answer are not scored")
	assert.Equal(t, 1, rep.Passed)
	assert.InDelta(t, 0.7, rep.MeanRatio, 1e-9)
	assert.InDelta(t, 0.5, rep.PassRate(), 1e-9)
	require.Len(t, rep.Items, 2)
	assert.True(t, rep.Items[0].Passed)
	assert.False(t, rep.Items[1].Passed)
	assert.Equal(t, 1, rep.Items[1].Index)

	assert.Zero(t, Report{}.PassRate())
	assert.Zero(t, e.RetentionThreshold(sets, nil))
}

func TestScoreSkipsKeyGaps(t *testing.T) {
	e := newEngine(t)
	db, err := lexeme.Build("test", []lexeme.Row{
		{Name: "latin", Code: "lat", Forms: []string{"pater", "ulk"}, Pos: 1},
		{Name: "gothic", Code: "got", Forms: []string{"fadar", "kaŋ"}, Pos: 2},
		{Name: "key", Forms: []string{"*pater", "-"}, Pos: 3},
	})
	require.NoError(t, err)

	// lat: 1.0, got: 0.4; the set without an answer is ignored.
	threshold := e.RetentionThreshold(db.Sets, db.Answers())
	assert.InDelta(t, 0.7, threshold, 1e-9)

	rep := e.Score([]string{"pater", "ulk"}, db.Answers(), threshold)
	assert.Equal(t, 1, rep.Total)
	assert.Equal(t, 1, rep.Passed)
	require.Len(t, rep.Items, 1)
	assert.Equal(t, 0, rep.Items[0].Index)
}
