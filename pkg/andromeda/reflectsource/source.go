// Package reflectsource provides a struct-tag driven FieldSource and
// DirectiveLoader for the andromeda engine. It is the default way to plug a
// concrete Go struct into an Evaluator without hand-writing field
// enumeration or directive declarations.
//
// A record is any struct value or pointer to struct. Each exported field
// participating in validation carries an `andromeda:"..."` tag; see
// ParseTag for its grammar. Fields without the tag are still enumerated
// (FieldSource.Fields reports every exported field) but carry no directive.
package reflectsource

import (
	"reflect"
	"strings"

	"github.com/rollingflamingo/andromeda/pkg/andromeda"
)

// FieldSource reads record fields via reflection, keyed by the struct
// field's tag name (see ParseTag) or, absent a tag name, its Go field
// name with the leading character lower-cased.
type FieldSource struct{}

var _ andromeda.FieldSource = FieldSource{}

// Fields returns the record's exported struct field names, in struct
// declaration order.
func (FieldSource) Fields(record any) []andromeda.Name {
	v := indirect(reflect.ValueOf(record))
	t := v.Type()
	names := make([]andromeda.Name, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		names = append(names, fieldName(f))
	}
	return names
}

// Read returns the current value of name on record. A field holding its Go
// zero value (0, "", false, nil pointer/interface/slice/map) reads as
// Absent; anything else reads as Present.
func (FieldSource) Read(record any, name andromeda.Name) andromeda.Value {
	v := indirect(reflect.ValueOf(record))
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || fieldName(f) != name {
			continue
		}
		fv := v.Field(i)
		if isZero(fv) {
			return andromeda.Absent()
		}
		return andromeda.Present(fv.Interface())
	}
	return andromeda.Absent()
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func fieldName(f reflect.StructField) andromeda.Name {
	if tag, ok := f.Tag.Lookup("andromeda"); ok {
		if parsed, err := ParseTag(tag); err == nil && parsed.Name != "" {
			return andromeda.Name(parsed.Name)
		}
	}
	return andromeda.Name(lowerFirst(f.Name))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
