package reflectsource

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rollingflamingo/andromeda/pkg/andromeda"
)

// TagDirective is the parsed form of one field's `andromeda:"..."` tag.
type TagDirective struct {
	Name         string
	Predicate    string
	Mandatory    bool
	Alternatives []string
	Requires     []string
	Conflicts    []string
	Context      string
}

// ParseTag parses a struct tag of the form:
//
//	andromeda:"name,predicate=nonempty,mandatory,alternatives=a|b,requires=c|d,conflicts=e,context=create"
//
// name and predicate are positional/keyed; every other key is optional.
// Multi-valued keys (alternatives, requires, conflicts) use "|" as the
// element separator since struct tags cannot contain commas without
// escaping.
func ParseTag(tag string) (TagDirective, error) {
	var td TagDirective
	parts := strings.Split(tag, ",")
	if len(parts) == 0 {
		return td, fmt.Errorf("reflectsource: empty andromeda tag")
	}
	td.Name = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "mandatory" {
			td.Mandatory = true
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return td, fmt.Errorf("reflectsource: malformed tag segment %q", part)
		}
		key, val := kv[0], kv[1]
		switch key {
		case "predicate":
			td.Predicate = val
		case "alternatives":
			td.Alternatives = splitNonEmpty(val)
		case "requires":
			td.Requires = splitNonEmpty(val)
		case "conflicts":
			td.Conflicts = splitNonEmpty(val)
		case "context":
			td.Context = val
		default:
			return td, fmt.Errorf("reflectsource: unknown tag key %q", key)
		}
	}
	return td, nil
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// TagLoader builds a DirectiveIndex from a struct's `andromeda:"..."` tags.
// It is the Go analogue of an annotation-driven directive declaration: one
// struct definition supplies both field enumeration (via FieldSource) and
// directive declaration.
type TagLoader struct{}

// Load builds a DirectiveIndex from shape, a struct value or pointer to
// struct whose exported fields may carry `andromeda:"..."` tags. Fields
// without the tag are enumerable via FieldSource but carry no Directive.
func (TagLoader) Load(shape any) (*andromeda.DirectiveIndex, error) {
	v := indirect(reflect.ValueOf(shape))
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("reflectsource: Load requires a struct or pointer to struct, got %s", v.Kind())
	}
	t := v.Type()
	var directives []*andromeda.Directive
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("andromeda")
		if !ok {
			continue
		}
		td, err := ParseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("reflectsource: field %s: %w", f.Name, err)
		}
		name := td.Name
		if name == "" {
			name = lowerFirst(f.Name)
		}
		directives = append(directives, &andromeda.Directive{
			Field:        andromeda.Name(name),
			Predicate:    td.Predicate,
			Mandatory:    td.Mandatory,
			Alternatives: toNames(td.Alternatives),
			Requires:     toNames(td.Requires),
			Conflicts:    toNames(td.Conflicts),
			Context:      td.Context,
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
