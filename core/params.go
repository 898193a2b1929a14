// Package core provides parameter sets and validation for the knapsack cryptosystem.
package core

import (
	"errors"
	"fmt"

	knapsack "github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/utils"
)

// Upper bounds accepted by ValidateParams. MaxMaxChars and MaxMaxBits cap
// each field; MaxKeyBytes caps their combination, since key size grows with
// the square of N = MaxChars*8.
const (
	MaxMaxChars = 1 << 16
	MaxMaxBits  = 1 << 12
	MaxKeyBytes = 64 << 20
)

// ErrKeyTooLarge is returned when the estimated key size exceeds MaxKeyBytes.
var ErrKeyTooLarge = errors.New("estimated key size exceeds limit")

// DefaultParams is the classic parameter set: 150-character messages and
// 50-bit random increments.
var DefaultParams = knapsack.Params{
	Name:     knapsack.Default,
	MaxChars: 150,
	MaxBits:  50,
}

// SmallParams is the parameter set used by worked examples.
var SmallParams = knapsack.Params{
	Name:     knapsack.Small,
	MaxChars: 4,
	MaxBits:  8,
}

// TestParams keeps keys small enough for fast property tests while still
// carrying realistic message lengths.
var TestParams = knapsack.Params{
	Name:     knapsack.Test,
	MaxChars: 16,
	MaxBits:  16,
}

// GetParams returns the parameter set for the given name.
func GetParams(name knapsack.ParamsName) (knapsack.Params, error) {
	switch name {
	case knapsack.Default:
		return DefaultParams, nil
	case knapsack.Small:
		return SmallParams, nil
	case knapsack.Test:
		return TestParams, nil
	default:
		return knapsack.Params{}, fmt.Errorf("unknown parameter set: %s", name)
	}
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(params knapsack.Params) error {
	if err := utils.CheckPositive(params.MaxChars, "max chars"); err != nil {
		return err
	}
	if err := utils.CheckPositive(params.MaxBits, "max bits"); err != nil {
		return err
	}
	if params.MaxChars > MaxMaxChars {
		return fmt.Errorf("max chars %d exceeds limit %d", params.MaxChars, MaxMaxChars)
	}
	if params.MaxBits > MaxMaxBits {
		return fmt.Errorf("max bits %d exceeds limit %d", params.MaxBits, MaxMaxBits)
	}
	if _, err := utils.SafeMultiply(params.MaxChars, 8); err != nil {
		return errors.New("bit length overflows int")
	}
	if size := keyBytes(params); size > MaxKeyBytes {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrKeyTooLarge, size, MaxKeyBytes)
	}
	return nil
}

// EstimateKeyBytes approximates the memory held by the big integers of a key
// pair. Element i of the superincreasing sequence has roughly i+MaxBits bits,
// and every public element is reduced modulo q of roughly N+MaxBits bits.
func EstimateKeyBytes(params knapsack.Params) int {
	return int(keyBytes(params))
}

func keyBytes(params knapsack.Params) int64 {
	n := int64(params.BitLength())
	bits := int64(params.MaxBits)
	privateBits := n*(n-1)/2 + n*bits
	publicBits := n * (n + bits)
	return (privateBits + publicBits + 7) / 8
}
