package andromeda

import (
	"errors"
	"fmt"
	"strings"
)

// Structural sentinel errors. These carry no per-field payload and are
// checked with errors.Is; they signal misuse of the API rather than a
// record's validation outcome.
var (
	// ErrUnknownIgnoreToken is returned by NewIgnoreSet when a caller
	// supplies a clause token outside {ALTERNATIVES, MANDATORY,
	// REQUIREMENTS, CONFLICTS}.
	ErrUnknownIgnoreToken = errors.New("andromeda: unknown ignore token")

	// ErrEmptyPredicateName is returned when a directive that is about to
	// be leaf-checked carries an empty predicate identifier.
	ErrEmptyPredicateName = errors.New("andromeda: directive has empty predicate name")

	// ErrDirectiveConflict is returned by NewDirectiveIndex when two
	// directives declare the same field name.
	ErrDirectiveConflict = errors.New("andromeda: duplicate directive for field")
)

// Kind enumerates the taxonomy of validation diagnostics.
type Kind int

const (
	// KindInvalidField reports a leaf predicate rejection, or a mandatory
	// field absent with no viable alternative.
	KindInvalidField Kind = iota

	// KindRequirements reports at least one required field absent or
	// itself failing.
	KindRequirements

	// KindConflictField reports at least one conflicting field
	// validating alongside the field that declared the conflict.
	KindConflictField

	// KindCyclicRequirement reports a requires-edge that closes a cycle
	// on the currently active traversal path.
	KindCyclicRequirement

	// KindDirectiveError reports a structural problem with a directive
	// itself: an unresolved referenced name, or a malformed predicate.
	KindDirectiveError
)

// String returns the taxonomy name used in Diagnostic.Error messages.
func (k Kind) String() string {
	switch k {
	case KindInvalidField:
		return "InvalidField"
	case KindRequirements:
		return "Requirements"
	case KindConflictField:
		return "ConflictField"
	case KindCyclicRequirement:
		return "CyclicRequirement"
	case KindDirectiveError:
		return "DirectiveError"
	default:
		return "Unknown"
	}
}

// Diagnostic is the single failure type returned by Evaluate. It carries the
// offending field and a list of referents whose meaning depends on Kind:
//
//   - InvalidField: the alternatives that were tried and rejected (may be
//     empty when the field itself had no directive-level alternatives).
//   - Requirements: the required field that failed, one per Diagnostic in
//     the causal chain (see Unwrap).
//   - ConflictField: the conflicting field that validated.
//   - CyclicRequirement: the full cycle path, first occurrence to closing
//     revisit.
//   - DirectiveError: the unresolved names, or a single descriptive token.
type Diagnostic struct {
	Kind      Kind
	Field     Name
	Referents []Name
	Cause     *Diagnostic
}

// Error implements the error interface. Field names are normalized (see
// Normalize) so messages read as field names rather than accessor names.
func (d *Diagnostic) Error() string {
	field := Normalize(d.Field)
	switch d.Kind {
	case KindInvalidField:
		if len(d.Referents) == 0 {
			return fmt.Sprintf("%s: %q is absent with no viable alternatives, or rejected by its predicate", d.Kind, field)
		}
		return fmt.Sprintf("%s: %q cannot be null; tried alternatives %s", d.Kind, field, normalizeJoin(d.Referents))
	case KindRequirements:
		msg := fmt.Sprintf("%s: %q requires %s", d.Kind, field, normalizeJoin(d.Referents))
		if d.Cause != nil {
			msg += ": " + d.Cause.Error()
		}
		return msg
	case KindConflictField:
		return fmt.Sprintf("%s: %q conflicts with %s", d.Kind, field, normalizeJoin(d.Referents))
	case KindCyclicRequirement:
		return fmt.Sprintf("%s: %s", d.Kind, normalizeJoin(d.Referents))
	case KindDirectiveError:
		return fmt.Sprintf("%s: %q references unresolved name(s) %s", d.Kind, field, normalizeJoin(d.Referents))
	default:
		return fmt.Sprintf("%s: %q", d.Kind, field)
	}
}

// Unwrap exposes the chained cause, if any, for errors.As/errors.Is.
func (d *Diagnostic) Unwrap() error {
	if d.Cause == nil {
		return nil
	}
	return d.Cause
}

func normalizeJoin(names []Name) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", Normalize(n))
	}
	return "[" + strings.Join(out, ", ") + "]"
}

func newInvalidField(field Name, alternatives []Name) *Diagnostic {
	return &Diagnostic{Kind: KindInvalidField, Field: field, Referents: alternatives}
}

func newRequirements(field Name, required Name, cause *Diagnostic) *Diagnostic {
	return &Diagnostic{Kind: KindRequirements, Field: field, Referents: []Name{required}, Cause: cause}
}

func newConflictField(field, conflicting Name) *Diagnostic {
	return &Diagnostic{Kind: KindConflictField, Field: field, Referents: []Name{conflicting}}
}

func newCyclicRequirement(path []Name) *Diagnostic {
	field := Name("")
	if len(path) > 0 {
		field = path[0]
	}
	return &Diagnostic{Kind: KindCyclicRequirement, Field: field, Referents: path}
}

func newDirectiveError(field Name, unresolved []Name) *Diagnostic {
	return &Diagnostic{Kind: KindDirectiveError, Field: field, Referents: unresolved}
}
