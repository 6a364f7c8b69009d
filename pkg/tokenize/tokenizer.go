// Package tokenize splits phonetic forms into inventory segments.
//
// Tokenization is a greedy, left-to-right longest match over runes: at
// each position the longest inventory symbol starting there wins, so
// polysymbols such as "tʃ" are never split and a later occurrence of the
// same polysymbol is found once the earlier one has been consumed.
// Runes that match nothing become unknown tokens and are reported as
// warnings rather than errors.
package tokenize

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/temporal-IPA/protoform/pkg/phono"
)

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithDiacriticTolerance enables the tolerant pass: a span that matches
// no symbol is retried with its combining marks stripped, and marks that
// trail a matched symbol are absorbed into its token. Tolerant matches
// are still reported as warnings.
func WithDiacriticTolerance() Option {
	return func(t *Tokenizer) { t.tolerant = true }
}

// WithNotation installs notation rules applied to every form before
// scanning.
func WithNotation(n *Notation) Option {
	return func(t *Tokenizer) { t.notation = n }
}

// Tokenizer maps forms onto the segments of an inventory.
// It is immutable after construction and safe for concurrent use.
type Tokenizer struct {
	inv      *phono.Inventory
	maxLen   int
	tolerant bool
	notation *Notation
}

// New returns a tokenizer over inv.
func New(inv *phono.Inventory, opts ...Option) *Tokenizer {
	t := &Tokenizer{inv: inv, maxLen: inv.MaxSymbolLen()}
	for _, opt := range opts {
		opt(t)
	}
	if t.maxLen < 1 {
		t.maxLen = 1
	}
	return t
}

// Inventory returns the inventory the tokenizer reads from.
func (t *Tokenizer) Inventory() *phono.Inventory { return t.inv }

// Tokenize splits form into tokens.
func (t *Tokenizer) Tokenize(form string) Result {
	if t.notation != nil {
		form = t.notation.Apply(form)
	}
	form = norm.NFC.String(form)
	res := Result{Form: form}
	runes := []rune(form)

	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		if tok, ok := t.marked(runes, i); ok {
			res.Tokens = append(res.Tokens, tok)
			i += tok.Len
			continue
		}
		if tok, ok := t.longest(runes, i); ok {
			if t.tolerant {
				tok = t.absorbMarks(runes, tok, &res)
			}
			res.Tokens = append(res.Tokens, tok)
			i += tok.Len
			continue
		}
		if t.tolerant {
			if tok, ok := t.stripped(runes, i); ok {
				res.Tokens = append(res.Tokens, tok)
				res.Unmatched = append(res.Unmatched, Warning{
					Form: form, Symbol: tok.Text, Pos: tok.Pos, Approximation: tok.Symbol(),
				})
				i += tok.Len
				continue
			}
		}
		raw := string(runes[i])
		res.Tokens = append(res.Tokens, Token{Text: raw, Pos: i, Len: 1, Segment: phono.Unknown(raw)})
		res.Unmatched = append(res.Unmatched, Warning{Form: form, Symbol: raw, Pos: i})
		i++
	}
	return res
}

// TokenizeAll tokenizes every form, in order.
func (t *Tokenizer) TokenizeAll(forms []string) []Result {
	out := make([]Result, len(forms))
	for i, f := range forms {
		out[i] = t.Tokenize(f)
	}
	return out
}

// longest finds the longest symbol starting at i. Candidates never end
// on whitespace.
func (t *Tokenizer) longest(runes []rune, i int) (Token, bool) {
	maxL := t.maxLen
	if rest := len(runes) - i; rest < maxL {
		maxL = rest
	}
	for l := maxL; l >= 1; l-- {
		if unicode.IsSpace(runes[i+l-1]) {
			continue
		}
		cand := string(runes[i : i+l])
		if seg, ok := t.inv.Segment(cand); ok {
			return Token{Text: cand, Pos: i, Len: l, Segment: seg}, true
		}
	}
	return Token{}, false
}

// marked recognises a known symbol wrapped in uncertainty markers: "(ɣ)".
func (t *Tokenizer) marked(runes []rune, i int) (Token, bool) {
	open, closing := []rune(phono.MarkerOpen), []rune(phono.MarkerClose)
	if !hasRunes(runes, i, open) {
		return Token{}, false
	}
	start := i + len(open)
	for l := t.maxLen; l >= 1; l-- {
		end := start + l
		if end+len(closing) > len(runes) || !hasRunes(runes, end, closing) {
			continue
		}
		sym := string(runes[start:end])
		if seg, ok := t.inv.Segment(sym); ok {
			n := len(open) + l + len(closing)
			return Token{Text: string(runes[i : i+n]), Pos: i, Len: n, Segment: seg, Uncertain: true}, true
		}
	}
	return Token{}, false
}

// absorbMarks extends tok over the combining marks that follow it.
func (t *Tokenizer) absorbMarks(runes []rune, tok Token, res *Result) Token {
	end := tok.Pos + tok.Len
	n := 0
	for end+n < len(runes) && unicode.Is(unicode.Mn, runes[end+n]) {
		n++
	}
	if n == 0 {
		return tok
	}
	tok.Len += n
	tok.Text = string(runes[tok.Pos : tok.Pos+tok.Len])
	tok.Tolerant = true
	res.Unmatched = append(res.Unmatched, Warning{
		Form: res.Form, Symbol: tok.Text, Pos: tok.Pos, Approximation: tok.Symbol(),
	})
	return tok
}

// stripped retries the span at i with its diacritics removed, longest
// candidate first, absorbing trailing combining marks.
func (t *Tokenizer) stripped(runes []rune, i int) (Token, bool) {
	maxL := t.maxLen
	if rest := len(runes) - i; rest < maxL {
		maxL = rest
	}
	for l := maxL; l >= 1; l-- {
		end := i + l
		for end < len(runes) && unicode.Is(unicode.Mn, runes[end]) {
			end++
		}
		base := removeDiacritics(string(runes[i:end]))
		if base == "" {
			continue
		}
		if seg, ok := t.inv.Segment(base); ok {
			return Token{Text: string(runes[i:end]), Pos: i, Len: end - i, Segment: seg, Tolerant: true}, true
		}
	}
	return Token{}, false
}

func hasRunes(runes []rune, at int, want []rune) bool {
	if at+len(want) > len(runes) {
		return false
	}
	for k, r := range want {
		if runes[at+k] != r {
			return false
		}
	}
	return true
}

// removeDiacritics returns a copy of s where all non-spacing marks
// (Unicode category Mn) have been removed after canonical decomposition.
// This makes "ẽ" and "e" compare equal.
func removeDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	out := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		out = append(out, r)
	}
	return norm.NFC.String(string(out))
}
