// Package lexeme models cognate data: forms attested in several
// languages, grouped by root into cognate sets.
//
// Sources list one row per language with one form per root:
//
//	lang_name  lang_code  forms
//	Latin      lat        pater, mater, frater
//	Gothic     got        fadar, -, broþar
//	Key        ?          *ph₂tḗr, ...
//
// Rows are transposed into one CognateSet per root. The row named "key"
// carries the known reconstructions used for testing, the row named
// "gloss" the meaning of each root. A form written "-" marks a gap: the
// language has no cognate for that root.
package lexeme

import (
	"strings"
)

// Form is one attested word.
type Form struct {
	Text  string `json:"text"`
	Lang  string `json:"lang"`
	Gloss string `json:"gloss,omitempty"`
}

// Equal compares text, language code and gloss.
func (f Form) Equal(o Form) bool {
	return f.Text == o.Text && f.Lang == o.Lang && f.Gloss == o.Gloss
}

func (f Form) String() string { return f.Text }

// CognateSet is the group of forms believed to share one root.
type CognateSet struct {
	// Root is the 0-based position of the root in the source rows.
	Root  int    `json:"root"`
	Gloss string `json:"gloss,omitempty"`
	Forms []Form `json:"forms"`
	// Answer is the known reconstruction, if the source has a key row.
	Answer string `json:"answer,omitempty"`
}

// Langs returns the language codes of the forms, in form order.
func (c CognateSet) Langs() []string {
	out := make([]string, len(c.Forms))
	for i, f := range c.Forms {
		out[i] = f.Lang
	}
	return out
}

// Get returns the form of the language lang.
func (c CognateSet) Get(lang string) (Form, bool) {
	for _, f := range c.Forms {
		if f.Lang == lang {
			return f, true
		}
	}
	return Form{}, false
}

// Contains reports whether a form with the given text is in the set.
func (c CognateSet) Contains(text string) bool {
	for _, f := range c.Forms {
		if f.Text == text {
			return true
		}
	}
	return false
}

// Texts returns the form texts, in form order.
func (c CognateSet) Texts() []string {
	out := make([]string, len(c.Forms))
	for i, f := range c.Forms {
		out[i] = f.Text
	}
	return out
}

// Validate returns the language codes that occur more than once. It is
// advisory: a set with repeated languages can still be reconstructed.
func (c CognateSet) Validate() []string {
	seen := make(map[string]int)
	var dups []string
	for _, f := range c.Forms {
		seen[f.Lang]++
		if seen[f.Lang] == 2 {
			dups = append(dups, f.Lang)
		}
	}
	return dups
}

func (c CognateSet) String() string {
	return "{" + strings.Join(c.Texts(), ", ") + "}"
}

// Language is a language of the database.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Database is a decoded cognate source.
type Database struct {
	Languages []Language   `json:"languages"`
	Sets      []CognateSet `json:"sets"`
}

// HasAnswers reports whether the source carried a key row.
func (db *Database) HasAnswers() bool {
	for _, s := range db.Sets {
		if s.Answer != "" {
			return true
		}
	}
	return false
}

// Answers returns the known reconstruction of every set, in set order.
func (db *Database) Answers() []string {
	out := make([]string, len(db.Sets))
	for i, s := range db.Sets {
		out[i] = s.Answer
	}
	return out
}

// Language returns the language registered under code.
func (db *Database) Language(code string) (Language, bool) {
	for _, l := range db.Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
