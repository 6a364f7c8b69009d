package lexeme

import (
	"fmt"
	"strings"
)

// sniffPipedTxt accepts the first data line when it has three
// tab-separated columns:
//
//	lat\tLatin\tpater | mater | frater
func sniffPipedTxt(sniff []byte, isEOF bool) bool {
	lines := firstLines(sniff, 1)
	if len(lines) == 0 {
		return false
	}
	return len(strings.Split(lines[0], "\t")) == 3
}

// parsePipedTxtLine parses "<code>\t<name>\t<form> | <form> | ...".
// The code may be empty or '?'. Forms are trimmed; an empty cell counts
// as a gap.
func parsePipedTxtLine(line string) (Row, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 3 {
		return Row{}, fmt.Errorf("%w: expected 3 tab-separated columns, got %d", ErrMalformedDatabase, len(cols))
	}
	row := Row{
		Code: strings.TrimSpace(cols[0]),
		Name: strings.TrimSpace(cols[1]),
	}
	for _, cell := range strings.Split(cols[2], "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			cell = Gap
		}
		row.Forms = append(row.Forms, cell)
	}
	return row, nil
}

// sniffSlashedTxt detects the slashed layout, e.g.:
//
//	Latin\t/pater/;/mater/
//	Gothic   /fadar/;/-/
//
// The separator between the language name and the first '/.../' can be
// a tab or any amount of whitespace.
func sniffSlashedTxt(sniff []byte, isEOF bool) bool {
	lines := firstLines(sniff, 1)
	if len(lines) == 0 {
		return false
	}
	line := lines[0]
	first := strings.Index(line, "/")
	if first <= 0 || strings.TrimSpace(line[:first]) == "" {
		return false
	}
	return strings.Contains(line[first+1:], "/")
}

// parseSlashedTxtLine parses "<name> /form/;/form/". Everything between
// two slashed segments is ignored, so "/p1/;/p2/" and "/p1/ , /p2/" both
// yield p1 and p2. A name ending in "[code]" sets the language code.
func parseSlashedTxtLine(line string) (Row, error) {
	first := strings.Index(line, "/")
	if first <= 0 {
		return Row{}, fmt.Errorf("%w: no slashed form", ErrMalformedDatabase)
	}
	row := Row{Name: strings.TrimSpace(line[:first])}
	if open := strings.LastIndex(row.Name, "["); open > 0 && strings.HasSuffix(row.Name, "]") {
		row.Code = strings.TrimSpace(row.Name[open+1 : len(row.Name)-1])
		row.Name = strings.TrimSpace(row.Name[:open])
	}

	rest := line[first:]
	for {
		start := strings.Index(rest, "/")
		if start == -1 {
			break
		}
		next := strings.Index(rest[start+1:], "/")
		var seg string
		if next == -1 {
			// unterminated: the remainder is the last form
			seg, rest = rest[start+1:], ""
		} else {
			end := start + 1 + next
			seg, rest = rest[start+1:end], rest[end+1:]
		}
		seg = strings.TrimSpace(seg)
		if seg == "" {
			seg = Gap
		}
		row.Forms = append(row.Forms, seg)
		if rest == "" {
			break
		}
	}
	return row, nil
}
