package lexeme

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by DatabaseError.
var (
	ErrMalformedDatabase = errors.New("lexeme: malformed cognate database")
	ErrMissingField      = errors.New("lexeme: missing field")
	ErrUnevenForms       = errors.New("lexeme: languages list different numbers of forms")
	ErrEmptyDatabase     = errors.New("lexeme: no language rows")
)

// DatabaseError describes a fatal problem with a cognate source.
type DatabaseError struct {
	Source string
	// Row is the 1-based row position, 0 when not tied to a row.
	Row   int
	Field string
	Err   error
}

func (e *DatabaseError) Error() string {
	var b strings.Builder
	b.WriteString("cognate database")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DatabaseError) Unwrap() error { return e.Err }
