package predicates

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rollingflamingo/andromeda/pkg/andromeda"
)

// goPlaygroundPrefix names the registry namespace consumed by
// RegisterGoPlayground: a directive predicate of "gpv:<tag>" runs <tag>
// through go-playground/validator/v10's single-value Var check, giving
// directive authors access to that library's tag vocabulary (email, uuid4,
// gte=0, and so on) without the core andromeda package depending on it.
const goPlaygroundPrefix = "gpv:"

// GoPlayground wraps a github.com/go-playground/validator/v10 validation
// tag as an andromeda.ValuePredicate.
type GoPlayground struct {
	validate *validator.Validate
	tag      string
}

// Check runs v.Raw() through the wrapped validator tag.
func (g GoPlayground) Check(v andromeda.Value) andromeda.Outcome {
	if err := g.validate.Var(v.Raw(), g.tag); err != nil {
		return andromeda.RejectFormat
	}
	return andromeda.Accept
}

// RegisterGoPlayground installs a resolver on registry that answers any
// predicate id of the form "gpv:<tag>" with a GoPlayground predicate
// running <tag>, so directive authors get the full go-playground/validator
// tag vocabulary without pre-declaring every tag they intend to use. A
// single shared *validator.Validate instance backs every resolved
// predicate, matching the teacher's package-level validator singleton
// pattern (services/orchestrator/datatypes/chat.go's chatValidate).
func RegisterGoPlayground(registry *andromeda.PredicateRegistry) {
	validate := validator.New()
	registry.RegisterResolver(func(id string) (andromeda.PredicateFactory, bool) {
		tag, ok := strings.CutPrefix(id, goPlaygroundPrefix)
		if !ok {
			return nil, false
		}
		return func() andromeda.ValuePredicate {
			return GoPlayground{validate: validate, tag: tag}
		}, true
	})
}
