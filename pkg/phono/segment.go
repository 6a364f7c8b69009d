package phono

// Record is one raw entry of a segment database, as decoded by a Loader.
// Features keep the order found in the source; the inventory re-orders
// them into its schema.
type Record struct {
	Symbol   string
	Name     string
	Features Vector
}

// Segment is an inventory entry: a symbol and its feature vector.
//
// A Segment with a nil Features vector is unknown: its symbol was seen in
// a form but is not part of the inventory. Unknown segments are carried
// along through alignment but never vote.
type Segment struct {
	Symbol   string
	Name     string
	Features Vector
}

// Known reports whether the segment belongs to an inventory.
func (s Segment) Known() bool { return s.Features != nil }

// Unknown builds the placeholder segment for an unrecognised symbol.
func Unknown(symbol string) Segment { return Segment{Symbol: symbol} }
