package phono

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// NewLineLoader constructs a Loader that reads a text source line by line
// and delegates the actual parsing to the provided LineParser.
func NewLineLoader(
	kind Kind,
	sniff func(sniff []byte, isEOF bool) bool,
	parser LineParser,
) Loader {
	return &lineLoader{
		kind:      kind,
		sniffFunc: sniff,
		parseLine: parser,
	}
}

// LineParser is a per-line parser for text-based formats.
//
// It receives a single logical line (with surrounding whitespace and
// inline comments already stripped by the loader). If the line should be
// ignored it can return a zero Record.
type LineParser func(line string) (Record, error)

// lineLoader is a generic implementation for textual formats where each
// record fits on a single line.
type lineLoader struct {
	kind      Kind
	sniffFunc func(sniff []byte, isEOF bool) bool
	parseLine LineParser
}

func (p *lineLoader) Kind() Kind { return p.kind }

func (p *lineLoader) Sniff(sniff []byte, isEOF bool) bool {
	if p.sniffFunc == nil {
		return false
	}
	return p.sniffFunc(sniff, isEOF)
}

func (p *lineLoader) Load(r io.Reader, emit OnRecordFunc) error {
	scanner := bufio.NewScanner(r)
	pos := 0
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := stripInlineCommentAndTrim(scanner.Text())
		if line == "" {
			continue
		}
		pos++
		rec, err := p.parseLine(line)
		if err != nil {
			return &DatabaseError{Record: pos, Err: fmt.Errorf("(%s) line %d: %w", p.kind, lineNo, err)}
		}
		if rec.Symbol == "" && len(rec.Features) == 0 {
			continue
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// sniffTSV detects the tab-separated segment format:
//
//	<symbol>\t<name>\t+cons -voice 0nasal
//
// The name column is optional. Lines that are empty or comments are
// ignored during sniff.
func sniffTSV(sniff []byte, isEOF bool) bool {
	valid := 0
	for _, raw := range strings.Split(string(sniff), "\n") {
		line := stripInlineCommentAndTrim(raw)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || len(parts) > 3 {
			return false
		}
		if !looksLikeFeatureList(parts[len(parts)-1]) {
			return false
		}
		valid++
		if valid >= 2 {
			break
		}
	}
	return valid > 0
}

func looksLikeFeatureList(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if len(f) < 2 || !strings.ContainsRune("+-0", rune(f[0])) {
			return false
		}
	}
	return true
}

// parseTSVLine parses a single line of the tab-separated format.
func parseTSVLine(line string) (Record, error) {
	parts := strings.Split(line, "\t")
	var rec Record
	var feats string
	switch len(parts) {
	case 2:
		rec.Symbol, feats = parts[0], parts[1]
	case 3:
		rec.Symbol, rec.Name, feats = parts[0], parts[1], parts[2]
	default:
		return Record{}, fmt.Errorf("%w: expected 2 or 3 tab-separated columns, got %d", ErrMalformedDatabase, len(parts))
	}
	rec.Symbol = strings.TrimSpace(rec.Symbol)
	rec.Name = strings.TrimSpace(rec.Name)
	for _, tok := range strings.Fields(feats) {
		if len(tok) < 2 {
			return Record{}, fmt.Errorf("%w: feature %q", ErrInvalidValue, tok)
		}
		val, err := ParseSign(tok[:1])
		if err != nil {
			return Record{}, err
		}
		rec.Features = append(rec.Features, Feature{Name: tok[1:], Value: val})
	}
	return rec, nil
}
