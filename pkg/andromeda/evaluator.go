package andromeda

import "sort"

// EvaluatorOption configures an Evaluator at construction time.
type EvaluatorOption func(*Evaluator)

// WithPredicateRegistry supplies the PredicateRegistry an Evaluator resolves
// Directive.Predicate identifiers against. Without this option, a fresh
// empty registry is used, which resolves no predicates at all — only useful
// for records whose visited directives never reach a leaf predicate check.
func WithPredicateRegistry(registry *PredicateRegistry) EvaluatorOption {
	return func(e *Evaluator) {
		e.registry = registry
	}
}

// Evaluator orchestrates one record's field-directive graph traversal:
// visitation order, cascade, alternative resolution, requirement checking,
// and conflict checking.
//
// # Thread Safety
//
// An Evaluator is not safe for concurrent use. Evaluate mutates a per-call
// cycle guard; call Evaluate from a single goroutine at a time per
// Evaluator value. A DirectiveIndex may be shared across many Evaluators
// running concurrently on different records.
type Evaluator struct {
	record   any
	index    *DirectiveIndex
	source   FieldSource
	registry *PredicateRegistry
	ignore   *IgnoreSet

	onlyContexts   map[string]bool
	ignoreContexts map[string]bool

	constructionErr error
	visitedCount    int
}

// NewEvaluator builds an Evaluator for record against index, reading field
// values through source. Call Ignoring/OnlyContexts/IgnoreContexts to
// configure traversal relaxations before calling Evaluate.
func NewEvaluator(record any, index *DirectiveIndex, source FieldSource, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		record:   record,
		index:    index,
		source:   source,
		registry: NewPredicateRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ignoring sets the IgnoreSet for this Evaluator, relaxing the traversal
// rules named by clauses (see Clause). It returns the Evaluator for
// chaining.
//
// An unrecognized clause is not reported immediately — it is recorded and
// surfaced as the error result of the next Evaluate call, so that
// construction-time chaining never needs its own error return.
func (e *Evaluator) Ignoring(clauses ...Clause) *Evaluator {
	set, err := NewIgnoreSet(clauses...)
	if err != nil {
		e.constructionErr = err
		return e
	}
	e.ignore = set
	return e
}

// OnlyContexts restricts evaluation to directives whose Context matches one
// of tags; all other directives are skipped as if they did not exist. It
// clears any prior IgnoreContexts selection and returns the Evaluator for
// chaining.
func (e *Evaluator) OnlyContexts(tags ...string) *Evaluator {
	e.onlyContexts = toStringSet(tags)
	e.ignoreContexts = nil
	return e
}

// IgnoreContexts skips directives whose Context matches one of tags. It
// clears any prior OnlyContexts selection and returns the Evaluator for
// chaining.
func (e *Evaluator) IgnoreContexts(tags ...string) *Evaluator {
	e.ignoreContexts = toStringSet(tags)
	e.onlyContexts = nil
	return e
}

func toStringSet(tags []string) map[string]bool {
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

// Evaluate walks every directive-bearing field of the record and returns
// true iff all of them pass. On the first failure it returns false and a
// *Diagnostic (as error) identifying the offending field and relation.
//
// Visitation order is deterministic: mandatory fields first, then
// FieldSource enumeration order within each group.
func (e *Evaluator) Evaluate() (bool, error) {
	if e.constructionErr != nil {
		return false, e.constructionErr
	}

	known := e.knownFieldSet()

	type visit struct {
		name Name
		dir  *Directive
	}
	var visits []visit
	for _, f := range e.source.Fields(e.record) {
		d, ok := e.index.Lookup(f)
		if !ok || !e.participates(d) {
			continue
		}
		visits = append(visits, visit{f, d})
	}
	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].dir.Mandatory && !visits[j].dir.Mandatory
	})

	guard := newCycleGuard()
	e.visitedCount = 0
	for _, v := range visits {
		e.visitedCount++
		if ok, diag := e.evaluateField(v.name, v.dir, guard, known); !ok {
			return false, diag
		}
	}
	return true, nil
}

// FieldsVisited reports how many directive-bearing fields the most recent
// Evaluate call visited before returning, whether it passed or failed on
// the last one visited. It is zero before the first Evaluate call.
func (e *Evaluator) FieldsVisited() int {
	return e.visitedCount
}

// knownFieldSet is the union of every name FieldSource reports and every
// name the DirectiveIndex carries a directive for. A name referenced by
// some directive's alternatives/requires/conflicts but absent from this set
// is unresolved and produces a DirectiveError.
func (e *Evaluator) knownFieldSet() map[Name]bool {
	known := make(map[Name]bool)
	for _, f := range e.source.Fields(e.record) {
		known[f] = true
	}
	for _, f := range e.index.Fields() {
		known[f] = true
	}
	return known
}

func (e *Evaluator) participates(d *Directive) bool {
	if len(e.onlyContexts) > 0 {
		return e.onlyContexts[d.Context]
	}
	if len(e.ignoreContexts) > 0 {
		return !e.ignoreContexts[d.Context]
	}
	return true
}

// evaluateField runs the per-field decision procedure for f under d: value
// fetch, absence handling, leaf predicate, requirements, conflicts.
func (e *Evaluator) evaluateField(f Name, d *Directive, guard *cycleGuard, known map[Name]bool) (bool, *Diagnostic) {
	if diag := e.checkReferences(f, d, known); diag != nil {
		return false, diag
	}

	if path, ok := guard.enter(f); !ok {
		return false, newCyclicRequirement(path)
	}
	defer guard.leave(f)

	v := e.source.Read(e.record, f)
	if !v.IsPresent() {
		if !d.Mandatory {
			return true, nil
		}
		return e.resolveAlternatives(f, d, guard, known)
	}

	if diag := e.runLeaf(f, d.Predicate, v); diag != nil {
		return false, diag
	}
	if ok, diag := e.checkRequirements(f, d, guard, known); !ok {
		return false, diag
	}
	if ok, diag := e.checkConflicts(f, d, known); !ok {
		return false, diag
	}
	return true, nil
}

// checkReferences verifies that every name d refers to (as an alternative,
// requirement, or conflict) resolves in known. It is the eager,
// before-traversal-proceeds check demanded of DirectiveError.
func (e *Evaluator) checkReferences(f Name, d *Directive, known map[Name]bool) *Diagnostic {
	var unresolved []Name
	for _, group := range [][]Name{d.Alternatives, d.Requires, d.Conflicts} {
		for _, n := range group {
			if !known[n] {
				unresolved = append(unresolved, n)
			}
		}
	}
	if len(unresolved) > 0 {
		return newDirectiveError(f, unresolved)
	}
	return nil
}

// runLeaf resolves predicateName in the registry and checks v against it,
// returning an InvalidField diagnostic on rejection, a DirectiveError for an
// empty or unresolvable predicate id, and nil on acceptance.
func (e *Evaluator) runLeaf(field Name, predicateName string, v Value) *Diagnostic {
	predicate, err := e.registry.New(predicateName)
	if err != nil {
		return newDirectiveError(field, []Name{Name(predicateName)})
	}
	if predicate.Check(v) == RejectFormat {
		return newInvalidField(field, nil)
	}
	return nil
}

// resolveAlternatives is invoked when a mandatory field f is absent. See
// §4.2: ALTERNATIVES is checked before MANDATORY, so a caller ignoring both
// still fails immediately rather than passing vacuously.
func (e *Evaluator) resolveAlternatives(f Name, d *Directive, guard *cycleGuard, known map[Name]bool) (bool, *Diagnostic) {
	if e.ignore.Has(Alternatives) {
		return false, newInvalidField(f, d.Alternatives)
	}
	if e.ignore.Has(Mandatory) {
		return true, nil
	}
	for _, a := range d.Alternatives {
		if e.tryAlternative(f, d, a, guard, known) {
			return true, nil
		}
	}
	return false, newInvalidField(f, d.Alternatives)
}

// tryAlternative checks one alternative candidate a for f: presence, a's
// own requirements (child form), a's leaf predicate (a's own directive if
// any, else d's), and a's own conflicts (child form).
func (e *Evaluator) tryAlternative(f Name, d *Directive, a Name, guard *cycleGuard, known map[Name]bool) bool {
	va := e.source.Read(e.record, a)
	if !va.IsPresent() {
		return false
	}

	ad, hasOwn := e.index.Lookup(a)
	if hasOwn {
		if diag := e.checkReferences(a, ad, known); diag != nil {
			return false
		}
		if _, ok := guard.enter(a); !ok {
			return false
		}
		defer guard.leave(a)
		if ok, _ := e.checkRequirements(a, ad, guard, known); !ok {
			return false
		}
	}

	predicateName := d.Predicate
	if hasOwn && ad.Predicate != "" {
		predicateName = ad.Predicate
	}
	if diag := e.runLeaf(a, predicateName, va); diag != nil {
		return false
	}

	if hasOwn {
		if ok, _ := e.checkConflicts(a, ad, known); !ok {
			return false
		}
	}
	return true
}

// checkRequirements holds iff every field d.Requires validates as a
// required child of parent (§4.3).
func (e *Evaluator) checkRequirements(parent Name, d *Directive, guard *cycleGuard, known map[Name]bool) (bool, *Diagnostic) {
	if e.ignore.Has(Requirements) {
		return true, nil
	}
	for _, r := range d.Requires {
		if ok, diag := e.checkRequirementChild(parent, r, d, guard, known); !ok {
			return false, diag
		}
	}
	return true, nil
}

// checkRequirementChild evaluates one required field r of parent. Absence
// of r's value is a failure regardless of r's own mandatory flag; a field
// with no directive at all is satisfied by presence alone, without a leaf
// predicate. Structural failures (DirectiveError, CyclicRequirement)
// propagate unwrapped; every other child failure is wrapped as
// Requirements(parent, {r}) with the child diagnostic chained.
func (e *Evaluator) checkRequirementChild(parent, r Name, parentDir *Directive, guard *cycleGuard, known map[Name]bool) (bool, *Diagnostic) {
	dr, hasDir := e.index.Lookup(r)
	if !hasDir {
		if !e.source.Read(e.record, r).IsPresent() {
			return false, newRequirements(parent, r, nil)
		}
		return true, nil
	}

	if diag := e.checkReferences(r, dr, known); diag != nil {
		return false, diag
	}

	path, ok := guard.enter(r)
	if !ok {
		return false, newCyclicRequirement(path)
	}
	defer guard.leave(r)

	vr := e.source.Read(e.record, r)
	if !vr.IsPresent() {
		return false, newRequirements(parent, r, nil)
	}

	predicateName := dr.Predicate
	if predicateName == "" {
		predicateName = parentDir.Predicate
	}
	if diag := e.runLeaf(r, predicateName, vr); diag != nil {
		return false, wrapAsRequirement(parent, r, diag)
	}

	if ok, diag := e.checkRequirements(r, dr, guard, known); !ok {
		return false, wrapAsRequirement(parent, r, diag)
	}
	if ok, diag := e.checkConflicts(r, dr, known); !ok {
		return false, wrapAsRequirement(parent, r, diag)
	}
	return true, nil
}

// wrapAsRequirement wraps diag as Requirements(parent, {r}) unless diag is
// itself structural (CyclicRequirement or DirectiveError), in which case it
// propagates unchanged — a cycle or an unresolved reference is reported as
// itself no matter how many requirement levels it is discovered under.
func wrapAsRequirement(parent, r Name, diag *Diagnostic) *Diagnostic {
	if diag == nil {
		return nil
	}
	switch diag.Kind {
	case KindCyclicRequirement, KindDirectiveError:
		return diag
	default:
		return newRequirements(parent, r, diag)
	}
}

// checkConflicts holds iff no field in d.Conflicts validates alongside
// field (§4.4). Conflict traversal never recurses past the leaf predicate.
func (e *Evaluator) checkConflicts(field Name, d *Directive, known map[Name]bool) (bool, *Diagnostic) {
	if e.ignore.Has(Conflicts) {
		return true, nil
	}
	for _, c := range d.Conflicts {
		vc := e.source.Read(e.record, c)
		if !vc.IsPresent() {
			continue
		}
		cd, hasOwn := e.index.Lookup(c)
		predicateName := d.Predicate
		if hasOwn && cd.Predicate != "" {
			predicateName = cd.Predicate
		}
		predicate, err := e.registry.New(predicateName)
		if err != nil {
			return false, newDirectiveError(field, []Name{Name(predicateName)})
		}
		if predicate.Check(vc) == Accept {
			return false, newConflictField(field, c)
		}
	}
	return true, nil
}
