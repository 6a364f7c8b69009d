// Package ipa ships the default segment database: the common IPA
// consonants and vowels described by binary and ternary distinctive
// features (syl, cons, son, cont, delrel, nasal, lat, voice, strid, lab,
// round, cor, ant, dor, high, low, back, tense, long).
//
// Affricate ligatures (ʦ, ʣ, ʧ, ʤ) and macron long vowels (ī, ē, ā, ō, ū)
// share the vectors of their digraph counterparts (ts, dz, tʃ, dʒ, iː, ...),
// which are registered first and therefore win exact resolution.
package ipa

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/temporal-IPA/protoform/pkg/phono"
)

//go:embed segments.json
var segmentsJSON []byte

var (
	defaultOnce sync.Once
	defaultInv  *phono.Inventory
)

// Default returns the inventory decoded from the embedded database.
// It is built once and shared; inventories are read-only.
func Default() *phono.Inventory {
	defaultOnce.Do(func() {
		inv, err := phono.LoadReader(bytes.NewReader(segmentsJSON))
		if err != nil {
			panic(fmt.Sprintf("decode embedded segment database: %s", err.Error()))
		}
		defaultInv = inv
	})
	return defaultInv
}

// Raw returns a copy of the embedded JSON database.
func Raw() []byte { return append([]byte(nil), segmentsJSON...) }
