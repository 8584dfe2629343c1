// Package andromeda implements a declarative field-validation engine.
//
// A record's fields carry Directives describing mandatoriness, alternative
// substitutes, cross-field requirements, and cross-field conflicts. An
// Evaluator walks a record's directives, resolving that graph into a single
// pass/fail decision, or a Diagnostic identifying the first offending
// relation.
//
// # Basic Usage
//
//	idx, err := andromeda.NewDirectiveIndex(directives...)
//	if err != nil {
//	    return err
//	}
//	eval := andromeda.NewEvaluator(record, idx, source)
//	ok, err := eval.Evaluate()
//	if !ok {
//	    var diag *andromeda.Diagnostic
//	    errors.As(err, &diag)
//	    // diag.Kind, diag.Field, diag.Referents
//	}
//
// # Collaborators
//
// The engine treats field enumeration (FieldSource) and leaf value checks
// (ValuePredicate) as external collaborators. Reference implementations live
// in the reflectsource and predicates subpackages; this package never
// imports either.
//
// # Thread Safety
//
// A DirectiveIndex is immutable after construction and safe to share across
// concurrently running Evaluators. An Evaluator itself is not safe for
// concurrent use: Evaluate mutates a per-call CycleGuard and should be
// called from a single goroutine at a time per Evaluator value.
package andromeda
