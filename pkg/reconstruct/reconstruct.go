package reconstruct

import (
	"log/slog"
	"strings"

	"github.com/temporal-IPA/protoform/pkg/align"
	"github.com/temporal-IPA/protoform/pkg/phono"
	"github.com/temporal-IPA/protoform/pkg/similarity"
	"github.com/temporal-IPA/protoform/pkg/tokenize"
)

// Reconstruct tokenizes forms, aligns them, votes a theoretical segment
// per column and resolves each one to a symbol.
//
// Blank forms are ignored. A single form goes through the same pipeline
// and comes back normalized. Columns emptied by pruning are skipped and
// listed in the diagnostics; a column whose members are all unknown
// renders its most frequent raw symbol, marked as uncertain.
func (e *Engine) Reconstruct(forms []string) (Result, error) {
	toks := e.tokenizeAll(forms)
	if len(toks) == 0 {
		return Result{}, &ReconstructionError{Forms: forms, Err: ErrNoForms}
	}

	segs := make([][]phono.Segment, len(toks))
	for i, t := range toks {
		segs[i] = t.Segments()
	}
	return e.render(forms, toks, align.Align(segs))
}

// render resolves the columns of al into a Result.
func (e *Engine) render(forms []string, toks []tokenize.Result, al align.Alignment) (Result, error) {
	var diag Diagnostics
	for _, t := range toks {
		diag.Unmatched = append(diag.Unmatched, t.Unmatched...)
	}
	diag.Moves = al.Moves
	diag.Skipped = al.Skipped
	diag.Dropped = len(al.Dropped)

	var out, bare []string
	for c, col := range al.Columns {
		diag.Pruned += len(col.Pruned)
		if col.Empty() {
			e.logger.Debug("column skipped", slog.Int("column", c))
			continue
		}
		if col.Theoretical == nil {
			sym := col.MajoritySymbol()
			out = append(out, phono.Mark(sym))
			bare = append(bare, sym)
			continue
		}
		res, _ := e.resolver.Resolve(col.Theoretical)
		if notice, ok := res.Notice(col.Theoretical); ok {
			diag.Ambiguities = append(diag.Ambiguities, notice)
		}
		if !res.Exact {
			diag.Approximations = append(diag.Approximations, Approximation{
				Column:      c,
				Theoretical: col.Theoretical,
				Symbol:      res.Symbol,
				Ratio:       res.Ratio,
			})
			e.logger.Debug("approximate resolution",
				slog.Int("column", c),
				slog.String("features", col.Theoretical.String()),
				slog.String("symbol", res.Symbol),
				slog.Float64("ratio", res.Ratio))
		}
		out = append(out, res.Text())
		bare = append(bare, res.Symbol)
	}
	if len(out) == 0 {
		return Result{}, &ReconstructionError{
			Forms:  forms,
			Reason: "no column kept a member",
			Err:    ErrEmptyReconstruction,
		}
	}

	result := Result{
		Form:        strings.Join(out, ""),
		Segments:    out,
		Diagnostics: diag,
	}
	for _, t := range toks {
		result.Ratios = append(result.Ratios, FormRatio{
			Form:  t.Form,
			Ratio: similarity.Ratio(t.Symbols(), bare),
		})
	}
	return result, nil
}

// tokenizeAll tokenizes the non-blank forms, dropping those without any
// token.
func (e *Engine) tokenizeAll(forms []string) []tokenize.Result {
	var out []tokenize.Result
	for _, f := range forms {
		if strings.TrimSpace(f) == "" {
			continue
		}
		res := e.tok.Tokenize(f)
		if len(res.Tokens) == 0 {
			continue
		}
		out = append(out, res)
	}
	return out
}

// Similarity compares two forms as sequences of segment symbols.
// Uncertainty markers are read through, so "(b)a" equals "ba".
func (e *Engine) Similarity(a, b string) float64 {
	return similarity.Ratio(e.tok.Tokenize(a).Symbols(), e.tok.Tokenize(b).Symbols())
}

// FormSimilarity compares two tokenized forms position by position with
// segment feature similarity. The sum is divided by the length of the
// longer form, so length differences count as mismatches.
func FormSimilarity(a, b []phono.Segment) float64 {
	longer := max(len(a), len(b))
	if longer == 0 {
		return 1
	}
	var sum float64
	for i := range min(len(a), len(b)) {
		sum += align.Similarity(a[i], b[i])
	}
	return sum / float64(longer)
}
