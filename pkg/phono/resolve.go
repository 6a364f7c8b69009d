package phono

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/temporal-IPA/protoform/pkg/similarity"
)

// Uncertainty markers wrapped around a symbol chosen by approximation.
const (
	MarkerOpen  = "("
	MarkerClose = ")"
)

// Mark wraps symbol in uncertainty markers.
func Mark(symbol string) string { return MarkerOpen + symbol + MarkerClose }

// Resolution is the symbol chosen for a theoretical feature vector.
type Resolution struct {
	Symbol string
	// Exact is false when the vector matched no segment and Symbol is the
	// closest approximation.
	Exact bool
	// Ambiguous lists the duplicate group when several symbols share the
	// exact vector. Symbol is its first member.
	Ambiguous []string
	// Ratio is the similarity between the vector and Symbol's features.
	Ratio float64
}

// Text renders the resolution: the bare symbol when exact, the marked
// symbol otherwise.
func (r Resolution) Text() string {
	if r.Exact {
		return r.Symbol
	}
	return Mark(r.Symbol)
}

// Notice returns the ambiguity notice for the resolution, if any.
func (r Resolution) Notice(v Vector) (AmbiguousResolution, bool) {
	if len(r.Ambiguous) < 2 {
		return AmbiguousResolution{}, false
	}
	return AmbiguousResolution{Vector: v, Symbol: r.Symbol, Symbols: r.Ambiguous}, true
}

// Resolver maps theoretical feature vectors back to inventory symbols.
//
// Exact vectors go through the inventory's inverse index. Any other
// vector is approximated by the inventory segment with the highest
// similarity ratio, the first one in registration order on ties.
// Approximations are memoised; a Resolver is safe for concurrent use.
type Resolver struct {
	inv   *Inventory
	cache *lru.Cache[string, Resolution]
}

// NewResolver creates a resolver over inv. cacheSize bounds the number of
// memoised approximations; zero or less disables the cache.
func NewResolver(inv *Inventory, cacheSize int) *Resolver {
	r := &Resolver{inv: inv}
	if cacheSize > 0 {
		// lru.New only fails on a non-positive size.
		r.cache, _ = lru.New[string, Resolution](cacheSize)
	}
	return r
}

// Inventory returns the inventory the resolver reads from.
func (r *Resolver) Inventory() *Inventory { return r.inv }

// Resolve returns the symbol for v. ok is false when v is empty or the
// inventory holds no segment.
func (r *Resolver) Resolve(v Vector) (res Resolution, ok bool) {
	if len(v) == 0 || r.inv == nil || r.inv.Len() == 0 {
		return Resolution{}, false
	}
	if sym, found := r.inv.Lookup(v); found {
		return Resolution{
			Symbol:    sym,
			Exact:     true,
			Ambiguous: r.inv.DuplicateGroup(v),
			Ratio:     1,
		}, true
	}
	key := v.Key()
	if r.cache != nil {
		if hit, found := r.cache.Get(key); found {
			return hit, true
		}
	}
	res = r.closest(v)
	if r.cache != nil {
		r.cache.Add(key, res)
	}
	return res, true
}

func (r *Resolver) closest(v Vector) Resolution {
	best := -1.0
	var res Resolution
	for _, seg := range r.inv.segments {
		ratio := similarity.Ratio(v, seg.Features)
		if ratio > best {
			best = ratio
			res = Resolution{Symbol: seg.Symbol, Ratio: ratio}
		}
	}
	return res
}
