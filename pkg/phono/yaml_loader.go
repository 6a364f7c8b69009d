package phono

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLLoader handles YAML sequences of segment records:
//
//	- symbol: p
//	  name: voiceless bilabial plosive
//	  features: {syl: false, cons: true, voice: false, high: 0}
//
// Records are decoded through yaml.Node so that the features mapping
// keeps its key order.
type YAMLLoader struct{}

// Kind reports the loader kind identifier for YAML databases.
func (y *YAMLLoader) Kind() Kind { return KindYAML }

// Sniff selects sources whose first meaningful line is a sequence item
// or a YAML document marker.
func (y *YAMLLoader) Sniff(sniff []byte, isEOF bool) bool {
	line := firstMeaningfulLine(sniff)
	return line == "---" || strings.HasPrefix(line, "- ")
}

// Load decodes the sequence and emits every record.
func (y *YAMLLoader) Load(r io.Reader, emit OnRecordFunc) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrMalformedDatabase, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: expected a YAML sequence at line %d", ErrMalformedDatabase, root.Line)
	}
	for i, item := range root.Content {
		rec, err := yamlRecord(item)
		if err != nil {
			return &DatabaseError{Record: i + 1, Err: err}
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}

func yamlRecord(n *yaml.Node) (Record, error) {
	if n.Kind != yaml.MappingNode {
		return Record{}, fmt.Errorf("%w: line %d: expected a mapping", ErrMalformedDatabase, n.Line)
	}
	var rec Record
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		switch key {
		case "symbol":
			rec.Symbol = val.Value
		case "name":
			rec.Name = val.Value
		case "features":
			v, err := yamlFeatures(val)
			if err != nil {
				return Record{}, err
			}
			rec.Features = v
		}
	}
	return rec, nil
}

func yamlFeatures(n *yaml.Node) (Vector, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: features must be a mapping", ErrMalformedDatabase, n.Line)
	}
	out := make(Vector, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		var raw any
		if err := n.Content[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		val, err := ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		out = append(out, Feature{Name: name, Value: val})
	}
	return out, nil
}
