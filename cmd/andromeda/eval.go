package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rollingflamingo/andromeda/pkg/andromeda"
	"github.com/rollingflamingo/andromeda/pkg/andromeda/loader"
	"github.com/rollingflamingo/andromeda/pkg/andromeda/predicates"
	"github.com/rollingflamingo/andromeda/pkg/logging"
)

func newPredicateRegistry() *andromeda.PredicateRegistry {
	registry := andromeda.NewPredicateRegistry()
	predicates.RegisterBuiltin(registry)
	predicates.RegisterGoPlayground(registry)
	return registry
}

func loadDirectives(path string) (*andromeda.DirectiveIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDirectivesFileNotFound, path)
	}
	return loader.YAMLLoader{}.LoadBytes(data)
}

func toClauses(tokens []string) []andromeda.Clause {
	clauses := make([]andromeda.Clause, len(tokens))
	for i, t := range tokens {
		clauses[i] = andromeda.Clause(t)
	}
	return clauses
}

// runOneEvaluation loads directives and a record from disk and runs a
// single Evaluate call, logging the outcome through logger. fieldsVisited
// reports how many directive-bearing fields the evaluator visited, for
// callers that feed it into pkg/metrics.
func runOneEvaluation(logger *logging.Logger) (valid bool, diag error, err error, fieldsVisited int) {
	index, err := loadDirectives(directivesPath)
	if err != nil {
		return false, nil, err, 0
	}
	record, err := loadRecord(recordPath)
	if err != nil {
		return false, nil, err, 0
	}

	evaluator := andromeda.NewEvaluator(record, index, recordSource{},
		andromeda.WithPredicateRegistry(newPredicateRegistry()))
	evaluator.Ignoring(toClauses(ignoreTokens)...)
	if len(onlyContexts) > 0 {
		evaluator.OnlyContexts(onlyContexts...)
	}
	if len(ignoreContexts) > 0 {
		evaluator.IgnoreContexts(ignoreContexts...)
	}

	ok, evalErr := evaluator.Evaluate()
	fieldsVisited = evaluator.FieldsVisited()
	if evalErr != nil {
		var d *andromeda.Diagnostic
		if errors.As(evalErr, &d) {
			if d.Kind == andromeda.KindDirectiveError {
				logger.Error("directive error", "field", string(d.Field))
				return false, nil, evalErr, fieldsVisited
			}
			logger.Warn("evaluation failed", "kind", d.Kind.String(), "field", string(d.Field))
			return false, evalErr, nil, fieldsVisited
		}
		logger.Error("evaluation errored", "error", evalErr)
		return false, nil, evalErr, fieldsVisited
	}
	logger.Info("evaluation succeeded")
	return ok, nil, nil, fieldsVisited
}

// newRunLogger builds a Logger tagged with a fresh run-correlation UUID.
func newRunLogger() (*logging.Logger, string) {
	runID := uuid.NewString()
	return logging.Default().With("run_id", runID), runID
}
