package andromeda

import "fmt"

// Clause names a traversal relaxation a caller may enable before Evaluate.
type Clause string

const (
	// Alternatives disables alternative rescue: a mandatory absent field
	// fails immediately without trying its alternatives.
	Alternatives Clause = "ALTERNATIVES"

	// Mandatory disables mandatoriness itself: a mandatory absent field
	// passes vacuously, provided ALTERNATIVES is not also set (see
	// resolveAlternatives, which checks ALTERNATIVES first).
	Mandatory Clause = "MANDATORY"

	// Requirements disables requirement checking entirely.
	Requirements Clause = "REQUIREMENTS"

	// Conflicts disables conflict checking entirely.
	Conflicts Clause = "CONFLICTS"
)

// IgnoreSet is an immutable set of Clauses supplied by the caller before
// evaluation. A zero-value IgnoreSet (nil) behaves as the empty set.
type IgnoreSet struct {
	set map[Clause]struct{}
}

// NewIgnoreSet validates and builds an IgnoreSet from the given clauses. An
// unrecognized token is rejected with ErrUnknownIgnoreToken.
func NewIgnoreSet(clauses ...Clause) (*IgnoreSet, error) {
	set := make(map[Clause]struct{}, len(clauses))
	for _, c := range clauses {
		switch c {
		case Alternatives, Mandatory, Requirements, Conflicts:
			set[c] = struct{}{}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownIgnoreToken, c)
		}
	}
	return &IgnoreSet{set: set}, nil
}

// Has reports whether clause is enabled. A nil IgnoreSet has no clauses
// enabled.
func (s *IgnoreSet) Has(clause Clause) bool {
	if s == nil {
		return false
	}
	_, ok := s.set[clause]
	return ok
}
