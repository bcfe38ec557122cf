package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMismatch indicates per-element sequences of unequal length.
	ErrInputMismatch = errors.New("frame: input sequence length mismatch")

	// ErrNoElements indicates an empty line sequence.
	ErrNoElements = errors.New("frame: no elements")

	// ErrTopologyMissing indicates a stage ran before EstablishTopology.
	ErrTopologyMissing = errors.New("frame: topology not established")

	// ErrNotAssembled indicates a solve before AssembleSystem.
	ErrNotAssembled = errors.New("frame: system not assembled")

	// ErrNotSolved indicates a post-processing step before a solve.
	ErrNotSolved = errors.New("frame: displacements not calculated")

	// ErrNoCompression indicates a buckling request with no compressed element.
	ErrNoCompression = errors.New("frame: no element in compression")
)

// InputError names the offending input sequence.
type InputError struct {
	Field string
	Got   int
	Want  int
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: %s has %d entries, want %d", ErrInputMismatch, e.Field, e.Got, e.Want)
}

func (e *InputError) Unwrap() error {
	return ErrInputMismatch
}
