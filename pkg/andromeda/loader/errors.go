package loader

import "errors"

// ErrDirectivesFileNotFound is returned by YAMLLoader.LoadFile when the
// backing file cannot be read.
var ErrDirectivesFileNotFound = errors.New("loader: directives file not found")
