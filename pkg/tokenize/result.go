package tokenize

import (
	"fmt"
	"strings"

	"github.com/temporal-IPA/protoform/pkg/phono"
)

// Token is one segment recognised in a form.
type Token struct {
	// Text is the surface text the token covers, markers included.
	Text string `json:"text"`
	// Pos is the rune offset of the token in the normalized form.
	Pos int `json:"pos"`
	// Len is the number of runes covered.
	Len int `json:"len"`
	// Segment is the inventory segment, or an unknown segment whose
	// symbol is the raw text.
	Segment phono.Segment `json:"-"`
	// Uncertain marks a symbol written between uncertainty markers,
	// as produced by approximate resolution.
	Uncertain bool `json:"uncertain,omitempty"`
	// Tolerant marks a match found only after stripping diacritics.
	Tolerant bool `json:"tolerant,omitempty"`
}

// Known reports whether the token maps to an inventory segment.
func (t Token) Known() bool { return t.Segment.Known() }

// Symbol returns the segment symbol of the token.
func (t Token) Symbol() string { return t.Segment.Symbol }

// Warning reports a part of a form that did not map cleanly onto the
// inventory. Warnings are never fatal.
type Warning struct {
	Form   string `json:"form"`
	Symbol string `json:"symbol"`
	Pos    int    `json:"pos"`
	// Approximation is the symbol used instead, for tolerant matches.
	Approximation string `json:"approximation,omitempty"`
}

func (w Warning) String() string {
	if w.Approximation != "" {
		return fmt.Sprintf("%q at %d in %q read as %q", w.Symbol, w.Pos, w.Form, w.Approximation)
	}
	return fmt.Sprintf("unknown symbol %q at %d in %q", w.Symbol, w.Pos, w.Form)
}

// Result is the tokenization of one form.
type Result struct {
	// Form is the form after notation rules and NFC normalization.
	Form      string    `json:"form"`
	Tokens    []Token   `json:"tokens"`
	Unmatched []Warning `json:"unmatched,omitempty"`
}

// Segments returns the token segments in order.
func (r Result) Segments() []phono.Segment {
	out := make([]phono.Segment, len(r.Tokens))
	for i, t := range r.Tokens {
		out[i] = t.Segment
	}
	return out
}

// Symbols returns the token symbols in order.
func (r Result) Symbols() []string {
	out := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		out[i] = t.Symbol()
	}
	return out
}

// Join reassembles the surface text of tokens. Joining the tokens of a
// form gives back the form without its whitespace.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}
