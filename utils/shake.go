package utils

import (
	"io"

	"golang.org/x/crypto/sha3"
)

const (
	// MaxHashConcatInputSize prevents integer overflow and collision attacks in HashConcat.
	// Each input must be <= 100MB. This provides safe encoding while remaining reasonable.
	MaxHashConcatInputSize = 100 * 1024 * 1024
)

// HashWithDomain computes a domain-separated SHA3-256 hash.
// It prefixes the data with the length of the domain string and the domain string itself.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	h := sha3.New256()
	h.Write([]byte{byte(len(domainBytes))})
	h.Write(domainBytes)
	h.Write(data)
	return h.Sum(nil)
}

// HashConcat computes the SHA3-256 hash of the concatenation of multiple byte slices.
// Each slice is prefixed with its length (4 bytes, little-endian) to ensure unique encoding.
func HashConcat(inputs ...[]byte) []byte {
	h := sha3.New256()
	lenBytes := make([]byte, 4)
	for _, input := range inputs {
		if len(input) > MaxHashConcatInputSize {
			panic("HashConcat: input size exceeds maximum")
		}

		l := len(input)
		lenBytes[0] = byte(l)
		lenBytes[1] = byte(l >> 8)
		lenBytes[2] = byte(l >> 16)
		lenBytes[3] = byte(l >> 24)
		h.Write(lenBytes)
		h.Write(input)
	}
	return h.Sum(nil)
}

// NewSeededReader returns an endless deterministic byte stream: the SHAKE256
// output for the domain-separated seed. Two readers built from the same domain
// and seed produce identical bytes.
// Panics if domain is longer than 255 bytes.
func NewSeededReader(domain string, seed []byte) io.Reader {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}

	h := sha3.NewShake256()
	h.Write([]byte{byte(len(domainBytes))})
	h.Write(domainBytes)
	h.Write(seed)
	return h
}
