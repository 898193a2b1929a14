// Package cipher encrypts and decrypts messages under Merkle-Hellman keys.
//
// A message of at most maxChars bytes is left-padded into an N = maxChars*8
// bit vector and encrypted as the sum of the public elements selected by its
// set bits. There is no randomness and no integrity check: encrypting the same
// message twice gives the same ciphertext, and a ciphertext that was not
// produced under the key decrypts to meaningless bytes without an error.
//
// Decryption returns the minimal big-endian encoding of the recovered value,
// so leading zero bytes cannot be recovered. Messages that start with a 0x00
// byte are therefore rejected with ErrLeadingZeroByte; every other message of
// 1 to maxChars bytes, including all UTF-8 text without a leading NUL, round
// trips exactly.
package cipher

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	knapsack "github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/bitvec"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/problems/subsetsum"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/utils"
)

// ValidateMessage checks a message against the length bound before any
// big-integer work is done.
func ValidateMessage(message []byte, maxChars int) error {
	if len(message) == 0 {
		return ErrEmptyMessage
	}
	if len(message) > maxChars {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrInvalidLength, len(message), maxChars)
	}
	if message[0] == 0 {
		return ErrLeadingZeroByte
	}
	return nil
}

// Encrypt encrypts message with pk. The key must have exactly maxChars*8
// elements.
func Encrypt(pk *knapsack.PublicKey, message []byte, maxChars int) (*big.Int, error) {
	if err := ValidateMessage(message, maxChars); err != nil {
		return nil, err
	}
	n := maxChars * 8
	if pk.Len() != n {
		return nil, fmt.Errorf("%w: key has %d elements, need %d", ErrKeySizeMismatch, pk.Len(), n)
	}

	bits, err := bitvec.FromBytes(message, n)
	if err != nil {
		return nil, err
	}
	return EncryptBits(pk, bits)
}

// EncryptBits returns the sum of the public elements selected by bits.
func EncryptBits(pk *knapsack.PublicKey, bits *bitvec.Vector) (*big.Int, error) {
	if bits.Len() != pk.Len() {
		return nil, fmt.Errorf("%w: %d bits, key has %d elements", ErrKeySizeMismatch, bits.Len(), pk.Len())
	}
	return subsetsum.Weigh(pk.B, bits)
}

// EncryptString encrypts UTF-8 text and renders the ciphertext in decimal.
func EncryptString(pk *knapsack.PublicKey, text string, maxChars int) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}
	c, err := Encrypt(pk, []byte(text), maxChars)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Decrypt recovers the message bytes from ciphertext c. The result is the
// minimal big-endian encoding of the recovered bit vector.
func Decrypt(sk *knapsack.PrivateKey, c *big.Int) ([]byte, error) {
	bits, err := DecryptBits(sk, c)
	if err != nil {
		return nil, err
	}
	return bits.Bytes(), nil
}

// DecryptBits undoes the modular disguise, t = (c mod q) * r^-1 mod q, and
// solves the superincreasing instance for t.
func DecryptBits(sk *knapsack.PrivateKey, c *big.Int) (*bitvec.Vector, error) {
	if c.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value", ErrMalformedCiphertext)
	}

	rInv := new(big.Int).ModInverse(sk.R, sk.Q)
	if rInv == nil {
		return nil, ErrNotInvertible
	}

	t := new(big.Int).Mod(c, sk.Q)
	t.Mul(t, rInv)
	t.Mod(t, sk.Q)

	// A nonzero remainder means c was not produced under this key. It still
	// decrypts, to garbage.
	bits, _, err := subsetsum.Solve(sk.W, t)
	utils.ZeroizeBigInts(t, rInv)
	return bits, err
}

// DecryptString parses a decimal ciphertext and decrypts it to text. Bytes
// that are not valid UTF-8 are returned as they are.
func DecryptString(sk *knapsack.PrivateKey, ciphertext string) (string, error) {
	c, err := ParseCiphertext(ciphertext)
	if err != nil {
		return "", err
	}
	plain, err := Decrypt(sk, c)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// ParseCiphertext parses a nonnegative base-10 integer. Surrounding whitespace
// is ignored; signs, prefixes, separators and empty input are rejected.
func ParseCiphertext(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedCiphertext)
	}
	if err := utils.CheckLength(len(s), utils.MaxCiphertextDigits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrMalformedCiphertext, s[i], i)
		}
	}

	c, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedCiphertext, s)
	}
	return c, nil
}
