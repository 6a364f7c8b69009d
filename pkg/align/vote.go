package align

import (
	"github.com/temporal-IPA/protoform/pkg/phono"
	"github.com/temporal-IPA/protoform/pkg/similarity"
)

// Vote computes the theoretical segment of a column: for each feature,
// in schema order, the value carried by most members. Ties go to the
// value met first in column order. Unknown members do not vote; a column
// without known members yields a nil vector.
func Vote(column []phono.Segment) phono.Vector {
	var voters []phono.Vector
	for _, s := range column {
		if s.Known() {
			voters = append(voters, s.Features)
		}
	}
	if len(voters) == 0 {
		return nil
	}
	schema := voters[0]
	out := make(phono.Vector, len(schema))
	for i, f := range schema {
		out[i] = phono.Feature{Name: f.Name, Value: majority(voters, i)}
	}
	return out
}

// majority returns the most frequent value at position i, first seen on
// ties.
func majority(voters []phono.Vector, i int) phono.Value {
	var counts [3]int
	var order []phono.Value
	for _, v := range voters {
		val := v[i].Value
		if counts[val] == 0 {
			order = append(order, val)
		}
		counts[val]++
	}
	best := order[0]
	for _, val := range order[1:] {
		if counts[val] > counts[best] {
			best = val
		}
	}
	return best
}

// Similarity compares two segments by their feature vectors. An unknown
// segment only matches an unknown segment with the same symbol.
func Similarity(a, b phono.Segment) float64 {
	if !a.Known() || !b.Known() {
		if !a.Known() && !b.Known() && a.Symbol == b.Symbol {
			return 1
		}
		return 0
	}
	return similarity.Ratio(a.Features, b.Features)
}

// Fit compares a segment with a theoretical vector.
func Fit(s phono.Segment, theoretical phono.Vector) float64 {
	if !s.Known() || len(theoretical) == 0 {
		return 0
	}
	return similarity.Ratio(s.Features, theoretical)
}

// Cohesion is the mean pairwise similarity among members, 0 when there
// is no pair.
func Cohesion(column []phono.Segment) float64 {
	var ratios []float64
	for i := 0; i < len(column); i++ {
		for j := i + 1; j < len(column); j++ {
			ratios = append(ratios, Similarity(column[i], column[j]))
		}
	}
	return similarity.Mean(ratios)
}
