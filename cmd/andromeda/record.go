package main

import (
	"fmt"
	"os"

	"github.com/rollingflamingo/andromeda/pkg/andromeda"
	"gopkg.in/yaml.v3"
)

// orderedRecord is a YAML mapping decoded via yaml.Node so that key order in
// the source file is preserved as the FieldSource enumeration order, per
// the engine's mandatory-first-then-declaration-order tie-break contract.
type orderedRecord struct {
	order  []andromeda.Name
	values map[andromeda.Name]any
}

func loadRecord(path string) (*orderedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRecordFileNotFound, path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("andromeda: parse record document: %w", err)
	}
	if len(doc.Content) == 0 {
		return &orderedRecord{values: map[andromeda.Name]any{}}, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("andromeda: record document must be a YAML mapping")
	}

	rec := &orderedRecord{values: make(map[andromeda.Name]any, len(mapping.Content)/2)}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := andromeda.Name(mapping.Content[i].Value)
		var v any
		if err := mapping.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("andromeda: decode field %q: %w", key, err)
		}
		rec.order = append(rec.order, key)
		rec.values[key] = v
	}
	return rec, nil
}

// recordSource implements andromeda.FieldSource over an *orderedRecord.
type recordSource struct{}

func (recordSource) Fields(record any) []andromeda.Name {
	rec := record.(*orderedRecord)
	out := make([]andromeda.Name, len(rec.order))
	copy(out, rec.order)
	return out
}

func (recordSource) Read(record any, name andromeda.Name) andromeda.Value {
	rec := record.(*orderedRecord)
	v, ok := rec.values[name]
	if !ok || v == nil {
		return andromeda.Absent()
	}
	return andromeda.Present(v)
}
