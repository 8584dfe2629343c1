// Package predicates supplies reference andromeda.ValuePredicate
// implementations: a small built-in registry for common leaf checks, and a
// go-playground/validator/v10 bridge for the wider tag vocabulary that
// library provides.
package predicates

import (
	"reflect"

	"github.com/rollingflamingo/andromeda/pkg/andromeda"
)

type predicateFunc func(andromeda.Value) andromeda.Outcome

func (f predicateFunc) Check(v andromeda.Value) andromeda.Outcome { return f(v) }

func accept(cond bool) andromeda.Outcome {
	if cond {
		return andromeda.Accept
	}
	return andromeda.RejectFormat
}

// RegisterBuiltin registers the built-in predicates into registry:
//
//   - "nonempty": a non-empty string.
//   - "positive": a numeric value strictly greater than zero.
//   - "nonnil": any value that is not the Go zero value for its type.
//   - "boolTrue" / "boolFalse": a bool equal to the named literal.
func RegisterBuiltin(registry *andromeda.PredicateRegistry) {
	registry.Register("nonempty", func() andromeda.ValuePredicate {
		return predicateFunc(func(v andromeda.Value) andromeda.Outcome {
			s, ok := v.Raw().(string)
			return accept(ok && s != "")
		})
	})
	registry.Register("positive", func() andromeda.ValuePredicate {
		return predicateFunc(func(v andromeda.Value) andromeda.Outcome {
			return accept(asFloat(v.Raw()) > 0)
		})
	})
	registry.Register("nonnil", func() andromeda.ValuePredicate {
		return predicateFunc(func(v andromeda.Value) andromeda.Outcome {
			rv := reflect.ValueOf(v.Raw())
			return accept(rv.IsValid() && !rv.IsZero())
		})
	})
	registry.Register("boolTrue", func() andromeda.ValuePredicate {
		return predicateFunc(func(v andromeda.Value) andromeda.Outcome {
			b, ok := v.Raw().(bool)
			return accept(ok && b)
		})
	})
	registry.Register("boolFalse", func() andromeda.ValuePredicate {
		return predicateFunc(func(v andromeda.Value) andromeda.Outcome {
			b, ok := v.Raw().(bool)
			return accept(ok && !b)
		})
	})
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
