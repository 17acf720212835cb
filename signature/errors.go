package signature

import "errors"

var (
	// ErrInvalidSignature is returned when a payload cannot be decoded into a signature.
	ErrInvalidSignature = errors.New("signature: invalid signature")

	// ErrNoSketch is returned when a signature carries no sketches.
	ErrNoSketch = errors.New("signature: no sketch")

	// ErrIncompatible is returned when two sketches cannot be compared.
	ErrIncompatible = errors.New("signature: incompatible sketches")
)
