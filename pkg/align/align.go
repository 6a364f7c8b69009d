// Package align groups tokenized cognate forms into positional columns
// and computes the theoretical segment of each column.
//
// Alignment runs in four steps:
//
//  1. the column count is the mean token length, rounded half to even;
//  2. column i collects token i of every form long enough, without
//     padding;
//  3. boundary correction: each member is compared with the provisional
//     theoretical segments of its own column and of the neighbouring
//     ones, and moves to a neighbour that fits strictly better (one pass);
//  4. outlier pruning: members whose fit with their column's theoretical
//     segment is below the column's mean pairwise similarity are dropped.
package align

import (
	"math"
	"sort"

	"github.com/temporal-IPA/protoform/pkg/phono"
)

// Member is a segment placed in a column, with its origin.
type Member struct {
	// Form is the index of the form the segment comes from.
	Form int
	// Index is the position of the segment within its form.
	Index   int
	Segment phono.Segment
}

// Move records a member relocated by boundary correction.
type Move struct {
	Member   Member
	From, To int
}

// Column is one aligned position.
type Column struct {
	// Members are ordered by form, then by position within the form.
	Members []Member
	// Pruned lists the members dropped as outliers.
	Pruned []Member
	// Theoretical is the majority vote of Members, nil when no member
	// is known.
	Theoretical phono.Vector
}

// Segments returns the segments of the members.
func (c Column) Segments() []phono.Segment { return segmentsOf(c.Members) }

// Empty reports whether the column has no member left.
func (c Column) Empty() bool { return len(c.Members) == 0 }

// MajoritySymbol returns the most frequent raw symbol of the column,
// first seen on ties. It is used for columns without known members.
func (c Column) MajoritySymbol() string {
	counts := make(map[string]int)
	best := ""
	for _, m := range c.Members {
		s := m.Segment.Symbol
		counts[s]++
		if best == "" || counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

// Alignment is the result of Align.
type Alignment struct {
	Columns []Column
	Moves   []Move
	// Skipped lists the indices of columns left without members.
	Skipped []int
	// Dropped lists the tokens of long forms past the column count.
	Dropped []Member
}

// Align groups forms into columns, corrects their boundaries and prunes
// outliers. Forms are sequences of segments; unknown segments take part
// in the layout but never vote.
func Align(forms [][]phono.Segment) Alignment {
	count := ColumnCount(forms)
	if count == 0 {
		return Alignment{}
	}
	var out Alignment
	cols := make([][]Member, count)
	for f, form := range forms {
		for i, seg := range form {
			m := Member{Form: f, Index: i, Segment: seg}
			if i >= count {
				out.Dropped = append(out.Dropped, m)
				continue
			}
			cols[i] = append(cols[i], m)
		}
	}

	cols, out.Moves = correct(cols)

	out.Columns = make([]Column, count)
	for c, members := range cols {
		kept, pruned := prune(members)
		col := Column{Members: kept, Pruned: pruned, Theoretical: Vote(segmentsOf(kept))}
		out.Columns[c] = col
		if col.Empty() {
			out.Skipped = append(out.Skipped, c)
		}
	}
	return out
}

// ColumnCount is the mean token length of forms, rounded half to even.
func ColumnCount(forms [][]phono.Segment) int {
	if len(forms) == 0 {
		return 0
	}
	total := 0
	for _, f := range forms {
		total += len(f)
	}
	return int(math.RoundToEven(float64(total) / float64(len(forms))))
}

// correct performs the single boundary correction pass. All decisions
// are taken against the provisional theoretical segments before any
// member moves.
func correct(cols [][]Member) ([][]Member, []Move) {
	theoretical := make([]phono.Vector, len(cols))
	for c, members := range cols {
		theoretical[c] = Vote(segmentsOf(members))
	}

	target := make([][]int, len(cols))
	var moves []Move
	for c, members := range cols {
		target[c] = make([]int, len(members))
		for k, m := range members {
			to := c
			own := Fit(m.Segment, theoretical[c])
			best := own
			if c > 0 {
				if left := Fit(m.Segment, theoretical[c-1]); left > best {
					to, best = c-1, left
				}
			}
			if c+1 < len(cols) {
				if right := Fit(m.Segment, theoretical[c+1]); right > best {
					to = c + 1
				}
			}
			target[c][k] = to
			if to != c {
				moves = append(moves, Move{Member: m, From: c, To: to})
			}
		}
	}
	if len(moves) == 0 {
		return cols, nil
	}

	next := make([][]Member, len(cols))
	for c, members := range cols {
		for k, m := range members {
			next[target[c][k]] = append(next[target[c][k]], m)
		}
	}
	for _, members := range next {
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Form != members[j].Form {
				return members[i].Form < members[j].Form
			}
			return members[i].Index < members[j].Index
		})
	}
	return next, moves
}

// prune drops the members whose fit with the column's theoretical
// segment is below the column's mean pairwise similarity. Columns with
// fewer than two members or no known member are left as they are.
func prune(members []Member) (kept, pruned []Member) {
	segs := segmentsOf(members)
	theoretical := Vote(segs)
	if len(members) < 2 || theoretical == nil {
		return members, nil
	}
	mean := Cohesion(segs)
	for _, m := range members {
		if Fit(m.Segment, theoretical) < mean {
			pruned = append(pruned, m)
			continue
		}
		kept = append(kept, m)
	}
	return kept, pruned
}

func segmentsOf(members []Member) []phono.Segment {
	out := make([]phono.Segment, len(members))
	for i, m := range members {
		out[i] = m.Segment
	}
	return out
}
