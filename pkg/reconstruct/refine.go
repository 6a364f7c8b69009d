package reconstruct

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/temporal-IPA/protoform/pkg/lexeme"
	"github.com/temporal-IPA/protoform/pkg/similarity"
)

// Oversampling is the number of copies a retained form gets per unit of
// similarity to the provisional reconstruction.
const Oversampling = 10

// Refine re-runs the reconstruction of every set, biased towards the
// forms that agree with its provisional reconstruction.
//
// Each iteration drops the forms whose similarity to the current
// reconstruction is below the set's mean, repeats every retained form
// round(similarity * Oversampling) times, appends the current
// reconstruction and reconstructs again. iterations below one count as
// one.
//
// A set that fails keeps its error in its Outcome and the other sets are
// still refined. The returned error is only set for mismatched input.
func (e *Engine) Refine(sets []lexeme.CognateSet, provisional []string, iterations int) ([]Outcome, error) {
	if len(sets) != len(provisional) {
		return nil, &ReconstructionError{
			Reason: fmt.Sprintf("%d sets, %d provisional reconstructions", len(sets), len(provisional)),
			Err:    ErrMismatchedInput,
		}
	}
	iterations = max(iterations, 1)
	runID := uuid.NewString()
	out := make([]Outcome, len(sets))
	for i, set := range sets {
		out[i] = e.refineOne(runID, i, set, provisional[i], iterations)
	}
	return out, nil
}

func (e *Engine) refineOne(runID string, i int, set lexeme.CognateSet, provisional string, iterations int) Outcome {
	o := Outcome{RunID: runID, Index: i, Set: set}
	current := provisional
	for it := 0; it < iterations; it++ {
		res, err := e.Reconstruct(e.bias(set.Texts(), current))
		if err != nil {
			o.Err = fmt.Errorf("refine set %d: %w", set.Root, err)
			e.logger.Debug("refine failed",
				slog.String("run_id", runID),
				slog.Int("root", set.Root),
				slog.Any("error", err))
			return o
		}
		o.Result = res
		current = res.Form
	}
	e.logger.Debug("refined",
		slog.String("run_id", runID),
		slog.Int("root", set.Root),
		slog.String("provisional", provisional),
		slog.String("refined", current))
	return o
}

// bias returns the oversampled forms followed by the reconstruction.
func (e *Engine) bias(forms []string, current string) []string {
	ratios := make([]float64, len(forms))
	for k, f := range forms {
		ratios[k] = e.Similarity(f, current)
	}
	mean := similarity.Mean(ratios)
	var out []string
	for k, f := range forms {
		if ratios[k] < mean {
			continue
		}
		copies := int(math.RoundToEven(ratios[k] * Oversampling))
		for range copies {
			out = append(out, f)
		}
	}
	return append(out, current)
}

// RetentionThreshold computes, for every language, the mean similarity
// of its forms to the known answers, and returns the mean over
// languages. Sets without an answer are ignored.
func (e *Engine) RetentionThreshold(sets []lexeme.CognateSet, answers []string) float64 {
	var order []string
	byLang := make(map[string][]float64)
	for i, set := range sets {
		if i >= len(answers) || answers[i] == "" {
			continue
		}
		for _, f := range set.Forms {
			if _, seen := byLang[f.Lang]; !seen {
				order = append(order, f.Lang)
			}
			byLang[f.Lang] = append(byLang[f.Lang], e.Similarity(f.Text, answers[i]))
		}
	}
	means := make([]float64, len(order))
	for k, lang := range order {
		means[k] = similarity.Mean(byLang[lang])
	}
	return similarity.Mean(means)
}

// ItemScore is the comparison of one reconstruction with its answer.
type ItemScore struct {
	Index          int     `json:"index"`
	Reconstruction string  `json:"reconstruction"`
	Answer         string  `json:"answer"`
	Ratio          float64 `json:"ratio"`
	Passed         bool    `json:"passed"`
}

// Report aggregates the scores of a test run.
type Report struct {
	Items     []ItemScore `json:"items"`
	Threshold float64     `json:"threshold"`
	Passed    int         `json:"passed"`
	Total     int         `json:"total"`
	MeanRatio float64     `json:"mean_ratio"`
}

// PassRate is Passed / Total, 0 for an empty report.
func (r Report) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// Score compares each reconstruction with the answer at the same index.
// A reconstruction passes when its similarity reaches threshold. Items
// without an answer are not scored.
func (e *Engine) Score(reconstructions, answers []string, threshold float64) Report {
	rep := Report{Threshold: threshold}
	var ratios []float64
	for i, rec := range reconstructions {
		if i >= len(answers) || answers[i] == "" {
			continue
		}
		item := ItemScore{
			Index:          i,
			Reconstruction: rec,
			Answer:         answers[i],
			Ratio:          e.Similarity(rec, answers[i]),
		}
		item.Passed = item.Ratio >= threshold
		if item.Passed {
			rep.Passed++
		}
		rep.Items = append(rep.Items, item)
		ratios = append(ratios, item.Ratio)
	}
	rep.Total = len(rep.Items)
	rep.MeanRatio = similarity.Mean(ratios)
	return rep
}
