// Package knapsack implements the Merkle-Hellman knapsack public-key cryptosystem.
// This package holds the shared key and parameter types; the algorithms live in the
// keygen and cipher sub-packages.
//
// WARNING: Merkle-Hellman is broken by a known polynomial-time attack. This module is
// historical and pedagogical only and provides no integrity protection: a ciphertext
// that was not produced under the key decrypts to meaningless bytes without an error.
package knapsack

// Version of the knapsack Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key generation:
//   - keygen.GenerateKeyPair(params) - Generate a key pair from crypto/rand
//   - keygen.GenerateKeyPairFromSeed(params, seed) - Reproducible key pair from a seed
//   - keygen.NewKeyPair(params, w, q, r) - Build a key pair from explicit private values
//   - keygen.NewPrivateKey(w, q, r) / keygen.PublicKeyOf(sk) - Keys of any width, e.g. textbook examples
//
// Encryption:
//   - cipher.Encrypt(pk, message, maxChars) - Subset-sum encryption into one big integer
//   - cipher.Decrypt(sk, ciphertext) - Recover the message bytes
//   - cipher.EncryptString / cipher.DecryptString - Decimal string forms
//
// Parameters:
//   - core.GetParams(name) - Get a named parameter set
//   - core.DefaultParams - 150 characters, 50-bit increments
