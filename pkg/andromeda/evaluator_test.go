package andromeda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapRecord is a minimal in-memory FieldSource target used across these
// tests: an ordered set of named values, standing in for a real record.
type mapRecord struct {
	order  []Name
	values map[Name]any
}

func newMapRecord(order ...Name) *mapRecord {
	return &mapRecord{order: order, values: make(map[Name]any)}
}

func (r *mapRecord) set(name Name, v any) *mapRecord {
	r.values[name] = v
	return r
}

type mapSource struct{}

func (mapSource) Fields(record any) []Name {
	return record.(*mapRecord).order
}

func (mapSource) Read(record any, name Name) Value {
	r := record.(*mapRecord)
	v, ok := r.values[name]
	if !ok {
		return Absent()
	}
	return Present(v)
}

type predicateFunc func(Value) Outcome

func (f predicateFunc) Check(v Value) Outcome { return f(v) }

func newTestRegistry() *PredicateRegistry {
	reg := NewPredicateRegistry()
	reg.Register("nonempty", func() ValuePredicate {
		return predicateFunc(func(v Value) Outcome {
			if s, ok := v.Raw().(string); ok && s != "" {
				return Accept
			}
			return RejectFormat
		})
	})
	reg.Register("positive", func() ValuePredicate {
		return predicateFunc(func(v Value) Outcome {
			switch n := v.Raw().(type) {
			case float64:
				if n > 0 {
					return Accept
				}
			case int:
				if n > 0 {
					return Accept
				}
			}
			return RejectFormat
		})
	})
	reg.Register("anybool", func() ValuePredicate {
		return predicateFunc(func(v Value) Outcome {
			if _, ok := v.Raw().(bool); ok {
				return Accept
			}
			return RejectFormat
		})
	})
	return reg
}

func newEval(record any, directives ...*Directive) *Evaluator {
	idx, err := NewDirectiveIndex(directives...)
	if err != nil {
		panic(err)
	}
	return NewEvaluator(record, idx, mapSource{}, WithPredicateRegistry(newTestRegistry()))
}

func TestScenarioS1PlainSuccess(t *testing.T) {
	record := newMapRecord("externalId", "description", "rent", "priceRent").
		set("externalId", "ext-ID").
		set("description", "A valid description").
		set("rent", true).
		set("priceRent", 1.0)

	eval := newEval(record,
		&Directive{Field: "externalId", Predicate: "nonempty", Mandatory: true},
		&Directive{Field: "description", Predicate: "nonempty", Mandatory: true},
		&Directive{Field: "rent", Predicate: "anybool", Mandatory: true},
		&Directive{Field: "priceRent", Predicate: "positive", Mandatory: true},
	)

	ok, err := eval.Evaluate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScenarioS2PlainFail(t *testing.T) {
	record := newMapRecord("externalId", "description", "rent", "priceRent")

	eval := newEval(record,
		&Directive{Field: "externalId", Predicate: "nonempty", Mandatory: true},
		&Directive{Field: "description", Predicate: "nonempty", Mandatory: true},
		&Directive{Field: "rent", Predicate: "anybool", Mandatory: true},
		&Directive{Field: "priceRent", Predicate: "positive", Mandatory: true},
	)

	ok, err := eval.Evaluate()
	assert.False(t, ok)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, KindInvalidField, diag.Kind)
	assert.Equal(t, Name("externalId"), diag.Field)
}

func TestScenarioS3AlternativeSuccess(t *testing.T) {
	record := newMapRecord("primary", "altProp").set("altProp", "ok")

	eval := newEval(record,
		&Directive{Field: "primary", Predicate: "nonempty", Mandatory: true, Alternatives: []Name{"altProp"}},
	)

	ok, err := eval.Evaluate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScenarioS4RequirementsSuccess(t *testing.T) {
	record := newMapRecord("prop", "requiredProp").
		set("prop", "x").
		set("requiredProp", 12.0)

	eval := newEval(record,
		&Directive{Field: "prop", Predicate: "nonempty", Mandatory: true, Requires: []Name{"requiredProp"}},
		&Directive{Field: "requiredProp", Predicate: "positive"},
	)

	ok, err := eval.Evaluate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScenarioS5RequirementsFail(t *testing.T) {
	record := newMapRecord("prop", "requiredProp").set("prop", "x")

	eval := newEval(record,
		&Directive{Field: "prop", Predicate: "nonempty", Mandatory: true, Requires: []Name{"requiredProp"}},
		&Directive{Field: "requiredProp", Predicate: "positive"},
	)

	ok, err := eval.Evaluate()
	assert.False(t, ok)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, KindRequirements, diag.Kind)
	assert.Equal(t, Name("prop"), diag.Field)
	assert.Equal(t, []Name{"requiredProp"}, diag.Referents)
}

func TestScenarioS6Cycle(t *testing.T) {
	record := newMapRecord("prop", "prop1").set("prop", "a").set("prop1", "b")

	eval := newEval(record,
		&Directive{Field: "prop", Predicate: "nonempty", Requires: []Name{"prop1"}},
		&Directive{Field: "prop1", Predicate: "nonempty", Requires: []Name{"prop"}},
	)

	ok, err := eval.Evaluate()
	assert.False(t, ok)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	require.Equal(t, KindCyclicRequirement, diag.Kind)
	assert.Equal(t, []Name{"prop", "prop1", "prop"}, diag.Referents)
}

func TestScenarioS7ConflictFail(t *testing.T) {
	record := newMapRecord("prop", "conflictProp").
		set("prop", "a").
		set("conflictProp", "b")

	eval := newEval(record,
		&Directive{Field: "prop", Predicate: "nonempty", Conflicts: []Name{"conflictProp"}},
		&Directive{Field: "conflictProp", Predicate: "nonempty", Conflicts: []Name{"prop"}},
	)

	ok, err := eval.Evaluate()
	assert.False(t, ok)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, KindConflictField, diag.Kind)
	assert.Equal(t, Name("prop"), diag.Field, "the ordering visits prop first")
}

func TestScenarioS8CascadeChain(t *testing.T) {
	directives := []*Directive{
		{Field: "prop", Predicate: "nonempty", Mandatory: true, Requires: []Name{"req1"}},
		{Field: "req1", Predicate: "nonempty", Requires: []Name{"req2"}},
		{Field: "req2", Predicate: "nonempty", Requires: []Name{"req3"}},
		{Field: "req3", Predicate: "nonempty"},
	}

	record := newMapRecord("prop", "req1", "req2", "req3").set("prop", "x")
	eval := newEval(record, directives...)
	ok, err := eval.Evaluate()
	assert.False(t, ok)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, Name("req1"), diag.Referents[0])

	record.set("req1", "x")
	eval = newEval(record, directives...)
	ok, err = eval.Evaluate()
	assert.False(t, ok)
	require.ErrorAs(t, err, &diag)
	assert.Contains(t, err.Error(), "req2")

	record.set("req2", "x")
	eval = newEval(record, directives...)
	ok, err = eval.Evaluate()
	assert.False(t, ok)
	require.ErrorAs(t, err, &diag)
	assert.Contains(t, err.Error(), "req3")

	record.set("req3", "x")
	eval = newEval(record, directives...)
	ok, err = eval.Evaluate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScenarioS9CascadeDiscardsAlternatives(t *testing.T) {
	record := newMapRecord("parent", "req", "reqAlt").
		set("parent", "x").
		set("reqAlt", "rescued")

	eval := newEval(record,
		&Directive{Field: "parent", Predicate: "nonempty", Requires: []Name{"req"}},
		&Directive{Field: "req", Predicate: "nonempty", Alternatives: []Name{"reqAlt"}},
	)

	ok, err := eval.Evaluate()
	assert.False(t, ok)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, KindRequirements, diag.Kind)
	assert.Equal(t, []Name{"req"}, diag.Referents)
}

func TestScenarioS10ContextSelection(t *testing.T) {
	record := newMapRecord("createOnly", "updateOnly").set("createOnly", "x")

	directives := []*Directive{
		{Field: "createOnly", Predicate: "nonempty", Mandatory: true, Context: "create"},
		{Field: "updateOnly", Predicate: "nonempty", Mandatory: true, Context: "update"},
	}

	eval := newEval(record, directives...).OnlyContexts("create")
	ok, err := eval.Evaluate()
	require.NoError(t, err)
	assert.True(t, ok)

	eval = newEval(record, directives...)
	ok, err = eval.Evaluate()
	assert.False(t, ok, "without a context filter the absent updateOnly field is mandatory")
}

func TestScenarioS11DirectiveErrorOnUnresolvedName(t *testing.T) {
	record := newMapRecord("prop").set("prop", "x")

	eval := newEval(record,
		&Directive{Field: "prop", Predicate: "nonempty", Requires: []Name{"ghost"}},
	)

	ok, err := eval.Evaluate()
	assert.False(t, ok)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, KindDirectiveError, diag.Kind)
	assert.Equal(t, []Name{"ghost"}, diag.Referents)
}

func TestPropertyIgnoreMonotonicity(t *testing.T) {
	record := newMapRecord("primary")
	directive := &Directive{Field: "primary", Predicate: "nonempty", Mandatory: true}

	ok, err := newEval(record, directive).Evaluate()
	require.Error(t, err)
	assert.False(t, ok)

	ok, err = newEval(record, directive).Ignoring(Mandatory).Evaluate()
	require.NoError(t, err)
	assert.True(t, ok, "ignoring MANDATORY must turn a prior failure into a pass")
}

func TestPropertyDeterminism(t *testing.T) {
	record := newMapRecord("primary").set("primary", "")
	directive := &Directive{Field: "primary", Predicate: "nonempty", Mandatory: true}

	eval := newEval(record, directive)
	ok1, err1 := eval.Evaluate()
	ok2, err2 := eval.Evaluate()

	assert.Equal(t, ok1, ok2)
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, err1.Error(), err2.Error())
}

func TestIgnoringWithUnknownTokenSurfacesAtEvaluate(t *testing.T) {
	record := newMapRecord("primary").set("primary", "x")
	directive := &Directive{Field: "primary", Predicate: "nonempty"}

	eval := newEval(record, directive).Ignoring(Clause("NOT_A_CLAUSE"))
	ok, err := eval.Evaluate()
	assert.False(t, ok)
	require.Error(t, err)
}
