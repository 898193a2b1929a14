// Package bitvec implements a fixed-width bit vector.
//
// Bit 0 is the leftmost, most significant bit. A vector of width n built from a
// byte string holds the string's big-endian value left-padded with zero bits,
// so every message encoded under the same key has the same width regardless of
// its length.
package bitvec

import (
	"errors"
	"fmt"
)

var (
	// ErrWidth indicates a negative width or a value too wide for the vector.
	ErrWidth = errors.New("bitvec: value does not fit width")

	// ErrBitValue indicates a bit value other than 0 or 1.
	ErrBitValue = errors.New("bitvec: bit must be 0 or 1")
)

// Vector is a fixed-width sequence of bits. The zero value is an empty vector.
type Vector struct {
	n    int
	data []byte // big-endian, the top 8*len(data)-n bits are always zero
}

// New returns an all-zero vector of width n.
func New(n int) (*Vector, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative width %d", ErrWidth, n)
	}
	return &Vector{n: n, data: make([]byte, (n+7)/8)}, nil
}

// FromBytes left-pads msg with zero bits to width n.
func FromBytes(msg []byte, n int) (*Vector, error) {
	v, err := New(n)
	if err != nil {
		return nil, err
	}
	if len(msg)*8 > n {
		return nil, fmt.Errorf("%w: %d bytes into %d bits", ErrWidth, len(msg), n)
	}
	copy(v.data[len(v.data)-len(msg):], msg)
	return v, nil
}

// FromBits builds a vector from individual bit values, index 0 first.
func FromBits(bits []uint8) (*Vector, error) {
	v, _ := New(len(bits))
	for i, b := range bits {
		if b > 1 {
			return nil, fmt.Errorf("%w: got %d at index %d", ErrBitValue, b, i)
		}
		v.Set(i, b == 1)
	}
	return v, nil
}

// Len returns the width of the vector.
func (v *Vector) Len() int {
	return v.n
}

// locate maps bit index i to its byte offset and mask.
func (v *Vector) locate(i int) (int, byte) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("bitvec: index %d out of range [0, %d)", i, v.n))
	}
	p := v.n - 1 - i
	return len(v.data) - 1 - p/8, byte(1) << (p % 8)
}

// Bit reports whether bit i is set.
func (v *Vector) Bit(i int) bool {
	off, mask := v.locate(i)
	return v.data[off]&mask != 0
}

// Set sets bit i to the given value.
func (v *Vector) Set(i int, on bool) {
	off, mask := v.locate(i)
	if on {
		v.data[off] |= mask
	} else {
		v.data[off] &^= mask
	}
}

// Bits returns the bit values, index 0 first.
func (v *Vector) Bits() []uint8 {
	out := make([]uint8, v.n)
	for i := range out {
		if v.Bit(i) {
			out[i] = 1
		}
	}
	return out
}

// Bytes returns the minimal big-endian byte representation of the vector's
// value. Leading zero bytes are dropped, so an all-zero vector yields an empty
// slice.
func (v *Vector) Bytes() []byte {
	i := 0
	for i < len(v.data) && v.data[i] == 0 {
		i++
	}
	out := make([]byte, len(v.data)-i)
	copy(out, v.data[i:])
	return out
}

// String renders the vector as a string of '0' and '1' characters.
func (v *Vector) String() string {
	buf := make([]byte, v.n)
	for i := range buf {
		if v.Bit(i) {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
