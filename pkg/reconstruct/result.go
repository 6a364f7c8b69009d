package reconstruct

import (
	"strings"

	"github.com/temporal-IPA/protoform/pkg/align"
	"github.com/temporal-IPA/protoform/pkg/phono"
	"github.com/temporal-IPA/protoform/pkg/tokenize"
)

// Approximation records a column whose theoretical segment matched no
// inventory segment exactly.
type Approximation struct {
	Column      int          `json:"column"`
	Theoretical phono.Vector `json:"-"`
	Symbol      string       `json:"symbol"`
	Ratio       float64      `json:"ratio"`
}

// Diagnostics accumulates the non-fatal events of a reconstruction.
type Diagnostics struct {
	Unmatched      []tokenize.Warning          `json:"unmatched,omitempty"`
	Ambiguities    []phono.AmbiguousResolution `json:"-"`
	Approximations []Approximation             `json:"approximations,omitempty"`
	// Skipped lists the columns left empty after pruning. They contribute
	// nothing to the output.
	Skipped []int        `json:"skipped,omitempty"`
	Moves   []align.Move `json:"-"`
	Pruned  int          `json:"pruned,omitempty"`
	// Dropped counts the tokens of long forms past the column count.
	Dropped int `json:"dropped,omitempty"`
}

// Empty reports whether nothing was recorded.
func (d Diagnostics) Empty() bool {
	return len(d.Unmatched) == 0 && len(d.Ambiguities) == 0 && len(d.Approximations) == 0 &&
		len(d.Skipped) == 0 && len(d.Moves) == 0 && d.Pruned == 0 && d.Dropped == 0
}

// Merge appends the events of o to d.
func (d *Diagnostics) Merge(o Diagnostics) {
	d.Unmatched = append(d.Unmatched, o.Unmatched...)
	d.Ambiguities = append(d.Ambiguities, o.Ambiguities...)
	d.Approximations = append(d.Approximations, o.Approximations...)
	d.Skipped = append(d.Skipped, o.Skipped...)
	d.Moves = append(d.Moves, o.Moves...)
	d.Pruned += o.Pruned
	d.Dropped += o.Dropped
}

// FormRatio is the similarity of one input form to the reconstruction.
type FormRatio struct {
	Form  string  `json:"form"`
	Ratio float64 `json:"ratio"`
}

// Result is one reconstruction.
type Result struct {
	// Form is the reconstructed form. Symbols chosen by approximation
	// are wrapped in uncertainty markers.
	Form string `json:"form"`
	// Segments are the rendered symbols of Form, one per kept column.
	Segments []string `json:"segments"`
	// Ratios compare every input form with Form.
	Ratios      []FormRatio `json:"ratios,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Uncertain reports whether at least one symbol was approximated.
func (r Result) Uncertain() bool {
	for _, s := range r.Segments {
		if strings.HasPrefix(s, phono.MarkerOpen) {
			return true
		}
	}
	return false
}
