package knapsack

import "math/big"

// ParamsName identifies a named parameter set.
type ParamsName string

const (
	// Default matches the classic setup: 150 characters with 50-bit increments.
	Default ParamsName = "default"
	// Small is a tiny parameter set for worked examples.
	Small ParamsName = "small"
	// Test is a fast parameter set for unit tests.
	Test ParamsName = "test"
)

// =============================================================================
// Parameter Types
// =============================================================================

// Params controls the key size.
type Params struct {
	Name     ParamsName `json:"name"`
	MaxChars int        `json:"max_chars"` // Longest message in bytes
	MaxBits  int        `json:"max_bits"`  // Bit length of each random increment
}

// BitLength returns N, the number of sequence elements and the width of the
// message bit vector.
func (p Params) BitLength() int {
	return p.MaxChars * 8
}

// =============================================================================
// Key Types
// =============================================================================

// PrivateKey is the trapdoor: a superincreasing sequence W together with the
// modulus Q and multiplier R used to disguise it.
type PrivateKey struct {
	W []*big.Int // Superincreasing sequence
	Q *big.Int   // Modulus, larger than the sum of W
	R *big.Int   // Multiplier, coprime with Q
}

// PublicKey is the disguised sequence B[i] = W[i]*R mod Q.
type PublicKey struct {
	B []*big.Int
}

// KeyPair contains both keys and the parameters they were generated for.
// A KeyPair is never modified after generation and may be shared between
// goroutines.
type KeyPair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
	Params     Params
}

// Len returns the number of elements in the public sequence.
func (pk *PublicKey) Len() int {
	return len(pk.B)
}

// Len returns the number of elements in the private sequence.
func (sk *PrivateKey) Len() int {
	return len(sk.W)
}
