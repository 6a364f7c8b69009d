package lexeme

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Row is one language line of a cognate source, before transposition.
type Row struct {
	Name  string
	Code  string
	Forms []string
	// Pos is the 1-based row position within its source.
	Pos int
}

// Special row names, compared case-insensitively.
const (
	KeyRow   = "key"
	GlossRow = "gloss"
	// Gap marks a root without cognate in a language.
	Gap = "-"
)

var formRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_()*-]+`)

// SplitForms extracts the forms of a raw forms field such as
// "pater, mater; frater". Forms are runs of letters, marks, digits,
// '_', '-', '*' and parentheses.
func SplitForms(raw string) []string {
	return formRe.FindAllString(cleanForm(raw), -1)
}

// cleanForm decodes HTML entities and normalizes to NFC.
func cleanForm(s string) string {
	return norm.NFC.String(strings.TrimSpace(html.UnescapeString(s)))
}

// Build transposes rows into cognate sets. source labels errors. A gap
// in the key row leaves that set without an answer.
func Build(source string, rows []Row) (*Database, error) {
	db := &Database{}
	var answers, glosses []string
	var langRows []Row
	for _, r := range rows {
		switch strings.ToLower(strings.TrimSpace(r.Name)) {
		case KeyRow:
			answers = cleanAll(r.Forms)
			continue
		case GlossRow:
			glosses = r.Forms
			continue
		}
		if strings.TrimSpace(r.Name) == "" {
			return nil, &DatabaseError{Source: source, Row: r.Pos, Field: "lang_name", Err: ErrMissingField}
		}
		if len(r.Forms) == 0 {
			return nil, &DatabaseError{Source: source, Row: r.Pos, Field: "forms", Err: ErrMissingField}
		}
		langRows = append(langRows, r)
	}
	if len(langRows) == 0 {
		return nil, &DatabaseError{Source: source, Err: ErrEmptyDatabase}
	}

	roots := len(langRows[0].Forms)
	for _, r := range langRows[1:] {
		if len(r.Forms) != roots {
			return nil, &DatabaseError{Source: source, Row: r.Pos, Field: "forms",
				Err: fmt.Errorf("%w: %s has %d, expected %d", ErrUnevenForms, r.Name, len(r.Forms), roots)}
		}
	}
	if answers != nil && len(answers) != roots {
		return nil, &DatabaseError{Source: source, Field: "forms",
			Err: fmt.Errorf("%w: key row has %d, expected %d", ErrUnevenForms, len(answers), roots)}
	}

	titleCaser := cases.Title(language.Und)
	codes := make([]string, len(langRows))
	for i, r := range langRows {
		codes[i] = LangCode(r.Code, r.Name)
		db.Languages = append(db.Languages, Language{Name: titleCaser.String(strings.TrimSpace(r.Name)), Code: codes[i]})
	}

	db.Sets = make([]CognateSet, roots)
	for root := 0; root < roots; root++ {
		set := CognateSet{Root: root}
		if root < len(glosses) {
			set.Gloss = strings.TrimSpace(glosses[root])
		}
		if answers != nil {
			set.Answer = answers[root]
		}
		for i, r := range langRows {
			text := cleanForm(r.Forms[root])
			if text == "" || text == Gap {
				continue
			}
			set.Forms = append(set.Forms, Form{Text: text, Lang: codes[i], Gloss: set.Gloss})
		}
		db.Sets[root] = set
	}
	return db, nil
}

func cleanAll(forms []string) []string {
	out := make([]string, len(forms))
	for i, f := range forms {
		a := strings.TrimPrefix(cleanForm(f), "*")
		if a == Gap {
			a = ""
		}
		out[i] = a
	}
	return out
}

// LangCode returns code, or a code derived from name when code is empty
// or contains '?': the first, second and last letters of the case-folded
// name.
func LangCode(code, name string) string {
	code = strings.TrimSpace(code)
	if code != "" && !strings.Contains(code, "?") {
		return code
	}
	runes := []rune(cases.Fold().String(strings.TrimSpace(name)))
	switch len(runes) {
	case 0:
		return code
	case 1, 2:
		return string(runes)
	}
	return string([]rune{runes[0], runes[1], runes[len(runes)-1]})
}
