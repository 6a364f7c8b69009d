package phono

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by DatabaseError.
var (
	// ErrMalformedDatabase is returned when a source cannot be decoded.
	ErrMalformedDatabase = errors.New("phono: malformed segment database")
	// ErrMissingField is returned when a record lacks its symbol or features.
	ErrMissingField = errors.New("phono: missing field")
	// ErrSchemaMismatch is returned when a record's feature names differ
	// from the schema set by the first record.
	ErrSchemaMismatch = errors.New("phono: feature schema mismatch")
	// ErrDuplicateSymbol is returned when one source defines a symbol twice.
	ErrDuplicateSymbol = errors.New("phono: duplicate symbol")
	// ErrEmptyDatabase is returned when no record was loaded at all.
	ErrEmptyDatabase = errors.New("phono: empty segment database")
	// ErrInvalidValue is returned for an unparsable feature value.
	ErrInvalidValue = errors.New("phono: invalid feature value")
)

// DatabaseError describes a fatal problem with a segment database.
type DatabaseError struct {
	// Source names the origin: a path, a blob label or a table.
	Source string
	// Record is the 1-based record position within Source, 0 when the
	// error is not tied to a record.
	Record int
	// Symbol is the offending record's symbol, when known.
	Symbol string
	// Field is the offending field ("symbol", "features", a feature name).
	Field string
	Err   error
}

func (e *DatabaseError) Error() string {
	var b strings.Builder
	b.WriteString("segment database")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Record > 0 {
		fmt.Fprintf(&b, " record %d", e.Record)
	}
	if e.Symbol != "" {
		fmt.Fprintf(&b, " (%q)", e.Symbol)
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

// withSource fills in the source of a DatabaseError produced without one.
func withSource(err error, source string) error {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) && dbErr.Source == "" {
		dbErr.Source = source
		return err
	}
	if err != nil && !errors.As(err, &dbErr) {
		return &DatabaseError{Source: source, Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
	}
	return err
}

// AmbiguousResolution is the notice emitted when a feature vector maps to
// a duplicate group: several symbols share the exact same features and
// Symbol, the first registered one, was chosen.
type AmbiguousResolution struct {
	Vector  Vector
	Symbol  string
	Symbols []string
}

func (a AmbiguousResolution) String() string {
	return fmt.Sprintf("ambiguous features %s: chose %q among %s",
		a.Vector, a.Symbol, strings.Join(a.Symbols, ", "))
}
