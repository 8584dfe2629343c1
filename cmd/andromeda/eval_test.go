package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rollingflamingo/andromeda/pkg/andromeda"
	"github.com/rollingflamingo/andromeda/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDirectives = `
directives:
  externalId:
    predicate: nonempty
    mandatory: true
  rent:
    predicate: anybool
`

func TestLoadDirectives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directives.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDirectives), 0644))

	idx, err := loadDirectives(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestLoadDirectivesMissingFile(t *testing.T) {
	_, err := loadDirectives("/nonexistent/directives.yaml")
	assert.ErrorIs(t, err, ErrDirectivesFileNotFound)
}

func TestToClauses(t *testing.T) {
	got := toClauses([]string{"MANDATORY", "CONFLICTS"})
	assert.Equal(t, []andromeda.Clause{andromeda.Mandatory, andromeda.Conflicts}, got)
}

func TestRunOneEvaluationSuccess(t *testing.T) {
	dir := t.TempDir()
	directivesPath = filepath.Join(dir, "directives.yaml")
	recordPath = filepath.Join(dir, "record.yaml")
	ignoreTokens, onlyContexts, ignoreContexts = nil, nil, nil

	require.NoError(t, os.WriteFile(directivesPath, []byte("directives:\n  externalId:\n    predicate: nonempty\n    mandatory: true\n"), 0644))
	require.NoError(t, os.WriteFile(recordPath, []byte("externalId: abc123\n"), 0644))

	logger := logging.New(logging.Config{Quiet: true})
	defer logger.Close()

	valid, diag, err, fieldsVisited := runOneEvaluation(logger)
	require.NoError(t, err)
	assert.Nil(t, diag)
	assert.True(t, valid)
	assert.Equal(t, 1, fieldsVisited)
}

func TestRunOneEvaluationFailure(t *testing.T) {
	dir := t.TempDir()
	directivesPath = filepath.Join(dir, "directives.yaml")
	recordPath = filepath.Join(dir, "record.yaml")
	ignoreTokens, onlyContexts, ignoreContexts = nil, nil, nil

	require.NoError(t, os.WriteFile(directivesPath, []byte("directives:\n  externalId:\n    predicate: nonempty\n    mandatory: true\n"), 0644))
	require.NoError(t, os.WriteFile(recordPath, []byte("externalId: \"\"\n"), 0644))

	logger := logging.New(logging.Config{Quiet: true})
	defer logger.Close()

	valid, diag, err, fieldsVisited := runOneEvaluation(logger)
	require.NoError(t, err)
	require.Error(t, diag)
	assert.False(t, valid)
	assert.Equal(t, 1, fieldsVisited)

	var d *andromeda.Diagnostic
	require.ErrorAs(t, diag, &d)
	assert.Equal(t, andromeda.KindInvalidField, d.Kind)
}

func TestRunOneEvaluationDirectiveErrorIsStructural(t *testing.T) {
	dir := t.TempDir()
	directivesPath = filepath.Join(dir, "directives.yaml")
	recordPath = filepath.Join(dir, "record.yaml")
	ignoreTokens, onlyContexts, ignoreContexts = nil, nil, nil

	require.NoError(t, os.WriteFile(directivesPath, []byte(
		"directives:\n  externalId:\n    predicate: nonempty\n    mandatory: true\n    requires: [missingField]\n",
	), 0644))
	require.NoError(t, os.WriteFile(recordPath, []byte("externalId: abc123\n"), 0644))

	logger := logging.New(logging.Config{Quiet: true})
	defer logger.Close()

	valid, diag, err, fieldsVisited := runOneEvaluation(logger)
	assert.False(t, valid)
	assert.Nil(t, diag)
	assert.Equal(t, 1, fieldsVisited)

	var d *andromeda.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, andromeda.KindDirectiveError, d.Kind)
}
