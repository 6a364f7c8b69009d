package lexeme

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONLoader handles the JSON row layout:
//
//	[
//	  {"lang_name": "Latin", "lang_code": "lat", "forms": "pater, mater"},
//	  {"lang_name": "Gothic", "lang_code": "?", "forms": ["fadar", "-"]},
//	  {"lang_name": "key", "lang_code": "", "forms": "pəter, meter"}
//	]
type JSONLoader struct{}

func (j *JSONLoader) Kind() Kind { return KindJSON }

func (j *JSONLoader) Sniff(sniff []byte, isEOF bool) bool {
	trimmed := bytes.TrimLeft(sniff, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func (j *JSONLoader) Load(r io.Reader, emit OnRowFunc) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("expected a JSON array, got %v", tok)
	}
	for pos := 1; dec.More(); pos++ {
		var raw jsonRow
		if err := dec.Decode(&raw); err != nil {
			return &DatabaseError{Row: pos, Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
		}
		switch {
		case raw.Name == nil:
			return &DatabaseError{Row: pos, Field: "lang_name", Err: ErrMissingField}
		case raw.Code == nil:
			return &DatabaseError{Row: pos, Field: "lang_code", Err: ErrMissingField}
		case raw.Forms == nil:
			return &DatabaseError{Row: pos, Field: "forms", Err: ErrMissingField}
		}
		if err := emit(Row{Name: *raw.Name, Code: *raw.Code, Forms: raw.Forms}); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

type jsonRow struct {
	Name  *string  `json:"lang_name"`
	Code  *string  `json:"lang_code"`
	Forms formList `json:"forms"`
}

// formList accepts either a JSON array of forms or a single string
// holding all the forms.
type formList []string

func (f *formList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		if list == nil {
			return nil
		}
		*f = formList(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("forms: expected a string or an array of strings")
	}
	*f = formList(SplitForms(s))
	if *f == nil {
		*f = formList{}
	}
	return nil
}
