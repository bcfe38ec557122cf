package structure

import "errors"

var (
	// ErrZeroLength indicates a line whose endpoints coincide.
	ErrZeroLength = errors.New("structure: zero-length line")
)
