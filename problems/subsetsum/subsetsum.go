// Package subsetsum implements the knapsack (subset-sum) arithmetic behind the
// Merkle-Hellman cryptosystem: weighing a bit selection against a sequence and
// solving the easy instance for superincreasing sequences.
package subsetsum

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/bitvec"
)

var (
	// ErrLengthMismatch indicates a selection and sequence of different lengths.
	ErrLengthMismatch = errors.New("subsetsum: selection length does not match sequence")

	// ErrNegativeTarget indicates a negative target sum.
	ErrNegativeTarget = errors.New("subsetsum: target must be nonnegative")
)

// Sum returns the total of all elements.
func Sum(seq []*big.Int) *big.Int {
	total := new(big.Int)
	for _, x := range seq {
		total.Add(total, x)
	}
	return total
}

// Weigh returns the sum of the elements of seq selected by the set bits of sel.
func Weigh(seq []*big.Int, sel *bitvec.Vector) (*big.Int, error) {
	if sel.Len() != len(seq) {
		return nil, fmt.Errorf("%w: %d bits, %d elements", ErrLengthMismatch, sel.Len(), len(seq))
	}
	total := new(big.Int)
	for i, x := range seq {
		if sel.Bit(i) {
			total.Add(total, x)
		}
	}
	return total, nil
}

// CheckSuperincreasing verifies that seq[0] >= 1 and that every later element
// exceeds the sum of all elements before it. It returns the index of the first
// violating element, or -1 when the sequence is superincreasing.
func CheckSuperincreasing(seq []*big.Int) int {
	sum := new(big.Int)
	for i, x := range seq {
		if i == 0 {
			if x.Sign() <= 0 {
				return 0
			}
		} else if x.Cmp(sum) <= 0 {
			return i
		}
		sum.Add(sum, x)
	}
	return -1
}

// Solve recovers the selection of a superincreasing sequence w that sums to
// target. Elements are visited from the largest down; because w[i] exceeds the
// sum of everything before it, any remaining total of at least w[i] must include
// w[i], so each choice is forced.
//
// The returned remainder is zero exactly when target is a subset sum of w. A
// nonzero remainder is not an error: the caller receives the best greedy
// selection and decides what to make of it.
func Solve(w []*big.Int, target *big.Int) (*bitvec.Vector, *big.Int, error) {
	if target.Sign() < 0 {
		return nil, nil, ErrNegativeTarget
	}
	sel, err := bitvec.New(len(w))
	if err != nil {
		return nil, nil, err
	}

	t := new(big.Int).Set(target)
	for i := len(w) - 1; i >= 0; i-- {
		if w[i].Cmp(t) <= 0 {
			t.Sub(t, w[i])
			sel.Set(i, true)
		}
	}
	return sel, t, nil
}
