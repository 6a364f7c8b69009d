package phono

import (
	"encoding/gob"
	"fmt"
	"io"
	"unicode/utf8"
)

// GobLoader handles gob-encoded []Record databases.
type GobLoader struct{}

// Kind reports the loader kind identifier for gob databases.
func (g *GobLoader) Kind() Kind { return KindGOB }

// Sniff identifies gob payloads with binary heuristics: the sniff bytes
// are not valid UTF-8 or contain NUL bytes. This avoids misclassifying
// text databases as gob.
func (g *GobLoader) Sniff(sniff []byte, isEOF bool) bool {
	if len(sniff) == 0 {
		return false
	}
	// A truncated sniff may split a multi-byte rune at its end.
	check := sniff
	if !isEOF && len(check) > utf8.UTFMax {
		check = check[:len(check)-utf8.UTFMax]
	}
	if !utf8.Valid(check) {
		return true
	}
	for _, b := range sniff {
		if b == 0 {
			return true
		}
	}
	return false
}

// Load decodes a gob-encoded []Record and emits all records in order.
func (g *GobLoader) Load(r io.Reader, emit OnRecordFunc) error {
	var records []Record
	if err := gob.NewDecoder(r).Decode(&records); err != nil {
		return fmt.Errorf("decode gob: %w", err)
	}
	for _, rec := range records {
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}

// EncodeGob writes records in the format read by GobLoader.
func EncodeGob(w io.Writer, records []Record) error {
	return gob.NewEncoder(w).Encode(records)
}
