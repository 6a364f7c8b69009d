package reconstruct

import (
	"log/slog"
	"strings"

	"github.com/temporal-IPA/protoform/pkg/phono"
	"github.com/temporal-IPA/protoform/pkg/similarity"
)

// Step is one merge of a collapse run.
type Step struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Ratio  float64 `json:"ratio"`
	Merged string  `json:"merged"`
}

// CollapseResult is the outcome of Collapse.
type CollapseResult struct {
	Form  string `json:"form"`
	Steps []Step `json:"steps"`
	// Threshold is the mean pairwise similarity of the initial forms.
	Threshold float64 `json:"threshold"`
	// Reference is the reconstruction of the first merged pair.
	Reference string `json:"reference,omitempty"`
	// FellBack is set when merging stopped below the threshold and Form
	// was picked among the remaining candidates.
	FellBack    bool        `json:"fell_back"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// collapseState is owned by one collapse run. The threshold is set on
// the first level with at least three candidates and never recomputed.
type collapseState struct {
	pool         []string
	threshold    float64
	thresholdSet bool
	reference    string
}

// candidatePair is a scored pair of pool indices, i < j.
type candidatePair struct {
	i, j  int
	ratio float64
}

// Collapse reduces forms to a single form by repeatedly reconstructing
// the two most similar candidates into one.
//
// With more than two candidates, every pair is compared; the first time,
// the mean of those ratios becomes the threshold for the whole run. The
// best pair is merged while its ratio reaches the threshold. Once it
// falls below, the run stops and the candidate most similar to the
// reference reconstruction is returned. Two candidates are always merged.
// A run takes at most len(forms)-1 merges.
func (e *Engine) Collapse(forms []string) (CollapseResult, error) {
	st := &collapseState{}
	for _, f := range forms {
		if strings.TrimSpace(f) != "" {
			st.pool = append(st.pool, f)
		}
	}
	var out CollapseResult
	switch len(st.pool) {
	case 0:
		return out, &ReconstructionError{Forms: forms, Err: ErrNoForms}
	case 1:
		out.Form = st.pool[0]
		return out, nil
	}

	for len(st.pool) > 2 {
		segs := e.segmentsOf(st.pool)
		pairs := scorePairs(segs)
		if !st.thresholdSet {
			ratios := make([]float64, len(pairs))
			for k, p := range pairs {
				ratios[k] = p.ratio
			}
			st.threshold = similarity.Mean(ratios)
			st.thresholdSet = true
		}
		best := pairs[0]
		for _, p := range pairs[1:] {
			if p.ratio > best.ratio {
				best = p
			}
		}
		if best.ratio < st.threshold {
			out.Form = st.pickLikeliest(e)
			out.FellBack = true
			e.logger.Debug("collapse fell back",
				slog.Float64("best", best.ratio),
				slog.Float64("threshold", st.threshold),
				slog.String("picked", out.Form))
			break
		}
		step, diag, err := e.merge(st, best.i, best.j, best.ratio)
		if err != nil {
			return out, err
		}
		out.Steps = append(out.Steps, step)
		out.Diagnostics.Merge(diag)
	}

	if !out.FellBack {
		a, b := st.pool[0], st.pool[1]
		ratio := FormSimilarity(e.tok.Tokenize(a).Segments(), e.tok.Tokenize(b).Segments())
		step, diag, err := e.merge(st, 0, 1, ratio)
		if err != nil {
			return out, err
		}
		out.Steps = append(out.Steps, step)
		out.Diagnostics.Merge(diag)
		out.Form = st.pool[0]
	}
	out.Threshold = st.threshold
	out.Reference = st.reference
	return out, nil
}

// merge reconstructs pool[i] and pool[j] and replaces them with the
// merged form, placed first so that it wins vote ties.
func (e *Engine) merge(st *collapseState, i, j int, ratio float64) (Step, Diagnostics, error) {
	a, b := st.pool[i], st.pool[j]
	res, err := e.Reconstruct([]string{a, b})
	if err != nil {
		return Step{}, Diagnostics{}, err
	}
	if st.reference == "" {
		st.reference = res.Form
	}
	next := make([]string, 0, len(st.pool)-1)
	next = append(next, res.Form)
	for k, f := range st.pool {
		if k != i && k != j {
			next = append(next, f)
		}
	}
	st.pool = next
	e.logger.Debug("collapse step",
		slog.String("a", a),
		slog.String("b", b),
		slog.Float64("ratio", ratio),
		slog.String("merged", res.Form),
		slog.Int("remaining", len(st.pool)))
	return Step{A: a, B: b, Ratio: ratio, Merged: res.Form}, res.Diagnostics, nil
}

// pickLikeliest returns the candidate most similar to the reference,
// the first one on ties.
func (st *collapseState) pickLikeliest(e *Engine) string {
	ref := e.tok.Tokenize(st.reference).Segments()
	best, bestRatio := st.pool[0], -1.0
	for _, f := range st.pool {
		if r := FormSimilarity(e.tok.Tokenize(f).Segments(), ref); r > bestRatio {
			best, bestRatio = f, r
		}
	}
	return best
}

func (e *Engine) segmentsOf(forms []string) [][]phono.Segment {
	out := make([][]phono.Segment, len(forms))
	for i, f := range forms {
		out[i] = e.tok.Tokenize(f).Segments()
	}
	return out
}

// scorePairs compares every unordered pair, in (i, j) order.
func scorePairs(segs [][]phono.Segment) []candidatePair {
	var pairs []candidatePair
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			pairs = append(pairs, candidatePair{i: i, j: j, ratio: FormSimilarity(segs[i], segs[j])})
		}
	}
	return pairs
}
