package utils

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"runtime"
)

// RandReader is the process-wide entropy source used when a caller does not
// inject one.
var RandReader io.Reader = rand.Reader

// SecureRandomBytes generates n cryptographically secure random bytes.
// It uses crypto/rand, which relies on the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := io.ReadFull(RandReader, buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomBits draws an integer uniformly from [0, 2^bits) using r.
// Exactly ceil(bits/8) bytes are consumed, so a deterministic reader always
// yields the same sequence of values.
func RandomBits(r io.Reader, bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, errors.New("bits must be positive")
	}
	if r == nil {
		r = RandReader
	}

	bytesNeeded := (bits + 7) / 8
	buf := make([]byte, bytesNeeded)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	// Clear the excess high bits of the first byte
	if excess := bytesNeeded*8 - bits; excess > 0 {
		buf[0] &= byte(0xFF >> excess)
	}

	v := new(big.Int).SetBytes(buf)
	Zeroize(buf)
	return v, nil
}

// RandomPositive draws an integer uniformly from [1, 2^bits].
func RandomPositive(r io.Reader, bits int) (*big.Int, error) {
	v, err := RandomBits(r, bits)
	if err != nil {
		return nil, err
	}
	return v.Add(v, big.NewInt(1)), nil
}

// ValidateSeedEntropy checks if a seed has sufficient entropy.
// It performs basic statistical tests to reject obviously weak seeds (e.g., all zeros, sequential).
// This is a sanity check, not a rigorous randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < 32 {
		return errors.New("seed must be at least 32 bytes")
	}

	// Check for all bytes identical
	first := seed[0]
	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != first {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}

	// Check for sequential patterns
	isAscending := true
	isDescending := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[i-1]+1 {
			isAscending = false
		}
		if seed[i] != seed[i-1]-1 {
			isDescending = false
		}
		if !isAscending && !isDescending {
			break
		}
	}
	if isAscending || isDescending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}

	// Check for low byte diversity
	unique := make(map[byte]struct{})
	for _, b := range seed {
		unique[b] = struct{}{}
		if len(unique) >= 8 {
			break
		}
	}
	if len(unique) < 8 {
		return errors.New("seed has low entropy: insufficient byte diversity")
	}

	return nil
}

// Zeroize overwrites a byte slice with zeros.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroizeBigInts overwrites the words of each integer and sets it to zero.
// Nil entries are skipped.
func ZeroizeBigInts(values ...*big.Int) {
	for _, v := range values {
		if v == nil {
			continue
		}
		words := v.Bits()
		for i := range words {
			words[i] = 0
		}
		v.SetInt64(0)
		runtime.KeepAlive(words)
	}
}
