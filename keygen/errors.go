package keygen

import "errors"

var (
	// ErrEmptyKey is returned when a private key has no sequence, modulus or multiplier.
	ErrEmptyKey = errors.New("keygen: incomplete private key")

	// ErrNotSuperincreasing is returned when an element of W does not exceed
	// the sum of the elements before it, or W[0] is not positive.
	ErrNotSuperincreasing = errors.New("keygen: sequence is not superincreasing")

	// ErrModulusTooSmall is returned when Q does not exceed the sum of W.
	ErrModulusTooSmall = errors.New("keygen: modulus must exceed the sequence sum")

	// ErrWidthMismatch is returned when a sequence length does not match the
	// parameter set it is paired with.
	ErrWidthMismatch = errors.New("keygen: sequence length does not match parameters")

	// ErrNotCoprime is returned when R has no inverse modulo Q.
	ErrNotCoprime = errors.New("keygen: multiplier is not coprime with modulus")
)
