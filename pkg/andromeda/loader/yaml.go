// Package loader supplies a YAML-backed andromeda.DirectiveIndex builder for
// records whose shape is only known at runtime, such as CLI-supplied
// records. It mirrors the teacher's embedded-YAML configuration pattern
// (services/policy_engine): unmarshal into a typed intermediate document,
// then build the runtime type the rest of the system consumes. Field values
// are copied as written; predicate names are not checked here and are only
// resolved when an Evaluator runs.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/rollingflamingo/andromeda/pkg/andromeda"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a directive declaration file: a mapping
// from field name to that field's directive body.
type document struct {
	Directives map[string]directiveBody `yaml:"directives"`
}

type directiveBody struct {
	Predicate    string   `yaml:"predicate"`
	Mandatory    bool     `yaml:"mandatory"`
	Alternatives []string `yaml:"alternatives"`
	Requires     []string `yaml:"requires"`
	Conflicts    []string `yaml:"conflicts"`
	Context      string   `yaml:"context"`
}

// YAMLLoader builds a DirectiveIndex from a YAML document. See
// testdata-shaped examples in yaml_test.go for the expected document shape.
type YAMLLoader struct{}

// LoadReader parses a directive declaration document from r.
func (YAMLLoader) LoadReader(r io.Reader) (*andromeda.DirectiveIndex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: read directive document: %w", err)
	}
	return YAMLLoader{}.LoadBytes(data)
}

// LoadFile parses a directive declaration document from the file at path.
func (YAMLLoader) LoadFile(path string) (*andromeda.DirectiveIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDirectivesFileNotFound, path)
	}
	return YAMLLoader{}.LoadBytes(data)
}

// LoadBytes parses a directive declaration document already read into
// memory.
func (YAMLLoader) LoadBytes(data []byte) (*andromeda.DirectiveIndex, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: parse directive document: %w", err)
	}

	directives := make([]*andromeda.Directive, 0, len(doc.Directives))
	for field, body := range doc.Directives {
		directives = append(directives, &andromeda.Directive{
			Field:        andromeda.Name(field),
			Predicate:    body.Predicate,
			Mandatory:    body.Mandatory,
			Alternatives: toNames(body.Alternatives),
			Requires:     toNames(body.Requires),
			Conflicts:    toNames(body.Conflicts),
			Context:      body.Context,
		})
	}
	return andromeda.NewDirectiveIndex(directives...)
}

func toNames(ss []string) []andromeda.Name {
	if ss == nil {
		return nil
	}
	names := make([]andromeda.Name, len(ss))
	for i, s := range ss {
		names[i] = andromeda.Name(s)
	}
	return names
}
