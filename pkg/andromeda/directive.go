package andromeda

import "fmt"

// Name identifies a field on a record. Names are opaque strings, unique
// within one record's directive set.
type Name string

// Directive is the immutable per-field validation descriptor: which
// predicate applies, whether the field is mandatory, what may substitute
// for it, what it requires, and what it conflicts with.
//
// Directive values are built once per record shape (typically by a
// DirectiveLoader) and shared read-only across every Evaluator that walks
// records of that shape.
type Directive struct {
	// Field is the name this directive describes.
	Field Name

	// Predicate identifies the leaf ValuePredicate to run against a
	// present value. May be empty only for directives that are never
	// leaf-checked directly (a field whose only role is an unannotated
	// requirement target has no Directive at all, not an empty one).
	Predicate string

	// Mandatory marks the field as required to be present, subject to
	// alternative rescue, unless the caller's IgnoreSet says otherwise.
	Mandatory bool

	// Alternatives lists, in the order they should be tried, sibling
	// fields that may substitute for this field when it is mandatory and
	// absent.
	Alternatives []Name

	// Requires lists fields that must themselves validate whenever this
	// field validates.
	Requires []Name

	// Conflicts lists fields that must not simultaneously validate.
	Conflicts []Name

	// Context is an optional tag used by Evaluator.OnlyContexts and
	// Evaluator.IgnoreContexts to select a subset of directives for one
	// evaluation. Empty means untagged.
	Context string
}

// DirectiveIndex maps field names to their Directive. It is built once per
// record shape and never mutated afterward.
type DirectiveIndex struct {
	byField map[Name]*Directive
	order   []Name
}

// NewDirectiveIndex builds an index from a set of directives. It rejects a
// duplicate Field across directives with ErrDirectiveConflict.
func NewDirectiveIndex(directives ...*Directive) (*DirectiveIndex, error) {
	idx := &DirectiveIndex{
		byField: make(map[Name]*Directive, len(directives)),
		order:   make([]Name, 0, len(directives)),
	}
	for _, d := range directives {
		if _, exists := idx.byField[d.Field]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDirectiveConflict, Normalize(d.Field))
		}
		idx.byField[d.Field] = d
		idx.order = append(idx.order, d.Field)
	}
	return idx, nil
}

// Lookup returns the Directive for name, if one was registered.
func (idx *DirectiveIndex) Lookup(name Name) (*Directive, bool) {
	d, ok := idx.byField[name]
	return d, ok
}

// Fields returns directive-bearing field names in the order they were
// supplied to NewDirectiveIndex.
func (idx *DirectiveIndex) Fields() []Name {
	out := make([]Name, len(idx.order))
	copy(out, idx.order)
	return out
}

// Len reports the number of directives in the index.
func (idx *DirectiveIndex) Len() int {
	return len(idx.byField)
}
