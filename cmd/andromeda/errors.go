package main

import "errors"

// Structural sentinel errors for the CLI's own file-loading steps, following
// the andromeda package's errors.go convention.
var (
	// ErrRecordFileNotFound is returned when --record points at a file
	// that cannot be read.
	ErrRecordFileNotFound = errors.New("andromeda: record file not found")

	// ErrDirectivesFileNotFound is returned when --directives points at
	// a file that cannot be read.
	ErrDirectivesFileNotFound = errors.New("andromeda: directives file not found")
)
