// Package similarity provides the ordered-sequence similarity ratio shared
// by every stage of the reconstruction pipeline.
//
// The ratio is based on the longest common subsequence (LCS) of the two
// sequences:
//
//	ratio(a, b) = 2 * LCS(a, b) / (len(a) + len(b))
//
// It is symmetric, equals 1.0 if and only if both sequences are equal
// (two empty sequences included), and equals 0.0 when exactly one of the
// sequences is empty or when they share no element at all.
//
// Elements can be anything comparable: runes, symbols, or feature
// (name, value) pairs.
package similarity

// Ratio returns the LCS-based similarity of a and b in [0, 1].
func Ratio[T comparable](a, b []T) float64 {
	return RatioFunc(a, b, func(x, y T) bool { return x == y })
}

// RatioFunc is like Ratio but compares elements with eq.
//
// eq must be symmetric for the ratio to be symmetric.
func RatioFunc[T any](a, b []T, eq func(x, y T) bool) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return 2 * float64(lcsLen(a, b, eq)) / float64(total)
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// lcsLen computes the length of the longest common subsequence with a
// rolling two-row table. Memory is O(min(n, m)).
func lcsLen[T any](a, b []T, eq func(x, y T) bool) int {
	if len(b) > len(a) {
		// Keep the shorter sequence on the inner loop; eq is symmetric so
		// swapping the arguments is safe.
		a, b = b, a
		orig := eq
		eq = func(x, y T) bool { return orig(y, x) }
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case eq(a[i-1], b[j-1]):
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
