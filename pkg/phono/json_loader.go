package phono

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONLoader handles JSON arrays of segment records:
//
//	[
//	  {"symbol": "p", "name": "voiceless bilabial plosive",
//	   "features": {"syl": false, "cons": true, "voice": false, "high": 0}},
//	  ...
//	]
//
// The array is decoded element by element, and each features object at
// token level so that its key order survives.
type JSONLoader struct{}

// Kind reports the loader kind identifier for JSON databases.
func (j *JSONLoader) Kind() Kind { return KindJSON }

// Sniff selects sources whose first non-blank byte opens an array.
func (j *JSONLoader) Sniff(sniff []byte, isEOF bool) bool {
	trimmed := bytes.TrimLeft(sniff, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Load decodes the array and emits every record.
func (j *JSONLoader) Load(r io.Reader, emit OnRecordFunc) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDatabase, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("%w: expected a JSON array, got %v", ErrMalformedDatabase, tok)
	}
	for pos := 1; dec.More(); pos++ {
		var rec jsonRecord
		if err := dec.Decode(&rec); err != nil {
			return &DatabaseError{Record: pos, Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
		}
		if err := emit(Record{Symbol: rec.Symbol, Name: rec.Name, Features: Vector(rec.Features)}); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDatabase, err)
	}
	return nil
}

type jsonRecord struct {
	Symbol   string       `json:"symbol"`
	Name     string       `json:"name"`
	Features jsonFeatures `json:"features"`
}

// jsonFeatures decodes a JSON object into an ordered Vector.
type jsonFeatures Vector

func (f *jsonFeatures) UnmarshalJSON(b []byte) error {
	v, err := decodeFeatureObject(b)
	if err != nil {
		return err
	}
	*f = jsonFeatures(v)
	return nil
}

// decodeFeatureObject reads {"name": value, ...} keeping key order.
func decodeFeatureObject(b []byte) (Vector, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("features: expected an object, got %v", tok)
	}
	var out Vector
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		val, err := ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		out = append(out, Feature{Name: name, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if out == nil {
		out = Vector{}
	}
	return out, nil
}
