// Package keygen generates Merkle-Hellman key pairs.
package keygen

import (
	"fmt"
	"io"
	"math/big"
	"runtime"
	"sync"

	knapsack "github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/core"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/problems/subsetsum"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/utils"
)

// Domain separation strings for the hashes and streams derived by this package.
const (
	DomainSeed        = "mhk-keygen-seed-v1"
	DomainStream      = "mhk-keygen-stream-v1"
	DomainFingerprint = "mhk-public-key-v1"
)

// parallelThreshold is the sequence length from which the public sequence is
// derived by several workers.
const parallelThreshold = 64

// GenerateKeyPair generates a key pair from the process-wide entropy source.
func GenerateKeyPair(params knapsack.Params) (*knapsack.KeyPair, error) {
	return Generate(params, utils.RandReader)
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
func GenerateKeyPairFromSeed(params knapsack.Params, seed []byte) (*knapsack.KeyPair, error) {
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}

	streamSeed := utils.HashWithDomain(DomainSeed, seed)
	defer utils.Zeroize(streamSeed)

	return Generate(params, utils.NewSeededReader(DomainStream, streamSeed))
}

// Generate builds a key pair of width N = params.MaxChars*8, drawing every
// random increment from entropy.
//
// The private sequence is superincreasing by construction: each element is the
// running sum plus a positive increment. q exceeds the total by another
// increment and r = q-1, which is always coprime with q.
func Generate(params knapsack.Params, entropy io.Reader) (*knapsack.KeyPair, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}
	if entropy == nil {
		entropy = utils.RandReader
	}

	n := params.BitLength()
	w := make([]*big.Int, n)
	sum := new(big.Int)

	for i := 0; i < n; i++ {
		inc, err := utils.RandomPositive(entropy, params.MaxBits)
		if err != nil {
			return nil, fmt.Errorf("drawing element %d: %w", i, err)
		}
		w[i] = inc.Add(inc, sum)
		sum.Add(sum, w[i])
	}

	inc, err := utils.RandomPositive(entropy, params.MaxBits)
	if err != nil {
		return nil, fmt.Errorf("drawing modulus: %w", err)
	}
	q := inc.Add(inc, sum)
	r := new(big.Int).Sub(q, big.NewInt(1))

	return &knapsack.KeyPair{
		PublicKey: knapsack.PublicKey{B: DerivePublicSequence(w, q, r)},
		PrivateKey: knapsack.PrivateKey{
			W: w,
			Q: q,
			R: r,
		},
		Params: params,
	}, nil
}

// NewKeyPair builds a key pair from explicit private values after checking
// every private key invariant. The slices and integers are copied, and w must
// have exactly params.BitLength() elements.
func NewKeyPair(params knapsack.Params, w []*big.Int, q, r *big.Int) (*knapsack.KeyPair, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}
	if len(w) != params.BitLength() {
		return nil, fmt.Errorf("%w: %d elements, parameters need %d", ErrWidthMismatch, len(w), params.BitLength())
	}
	sk, err := NewPrivateKey(w, q, r)
	if err != nil {
		return nil, err
	}

	return &knapsack.KeyPair{
		PublicKey:  *PublicKeyOf(sk),
		PrivateKey: *sk,
		Params:     params,
	}, nil
}

// NewPrivateKey copies and validates explicit private values. Unlike
// NewKeyPair it accepts any sequence length, which suits textbook keys that
// are narrower than a byte.
func NewPrivateKey(w []*big.Int, q, r *big.Int) (*knapsack.PrivateKey, error) {
	if q == nil || r == nil {
		return nil, ErrEmptyKey
	}
	sk := &knapsack.PrivateKey{
		W: make([]*big.Int, len(w)),
		Q: new(big.Int).Set(q),
		R: new(big.Int).Set(r),
	}
	for i, x := range w {
		if x == nil {
			return nil, fmt.Errorf("%w: element %d is nil", ErrEmptyKey, i)
		}
		sk.W[i] = new(big.Int).Set(x)
	}
	if err := ValidatePrivateKey(sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// PublicKeyOf derives the public key of a validated private key.
func PublicKeyOf(sk *knapsack.PrivateKey) *knapsack.PublicKey {
	return &knapsack.PublicKey{B: DerivePublicSequence(sk.W, sk.Q, sk.R)}
}

// ValidatePrivateKey checks that W is superincreasing, that Q exceeds the sum
// of W and that R is invertible modulo Q.
func ValidatePrivateKey(sk *knapsack.PrivateKey) error {
	if len(sk.W) == 0 || sk.Q == nil || sk.R == nil {
		return ErrEmptyKey
	}
	if i := subsetsum.CheckSuperincreasing(sk.W); i >= 0 {
		return fmt.Errorf("%w: element %d", ErrNotSuperincreasing, i)
	}
	if sk.Q.Cmp(subsetsum.Sum(sk.W)) <= 0 {
		return ErrModulusTooSmall
	}
	if sk.R.Sign() <= 0 || new(big.Int).GCD(nil, nil, sk.R, sk.Q).Cmp(big.NewInt(1)) != 0 {
		return ErrNotCoprime
	}
	return nil
}

// DerivePublicSequence computes b[i] = w[i]*r mod q.
// The work is split across workers for long sequences.
func DerivePublicSequence(w []*big.Int, q, r *big.Int) []*big.Int {
	n := len(w)
	b := make([]*big.Int, n)
	numWorkers := runtime.GOMAXPROCS(0)

	derive := func(start, end int) {
		for i := start; i < end; i++ {
			x := new(big.Int).Mul(w[i], r)
			b[i] = x.Mod(x, q)
		}
	}

	if n < parallelThreshold || numWorkers <= 1 {
		derive(0, n)
		return b
	}

	var wg sync.WaitGroup
	perWorker := (n + numWorkers - 1) / numWorkers

	for k := 0; k < numWorkers; k++ {
		start := k * perWorker
		end := start + perWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			derive(start, end)
		}(start, end)
	}
	wg.Wait()
	return b
}

// Fingerprint returns a SHA3-256 digest identifying the public sequence.
func Fingerprint(pk *knapsack.PublicKey) []byte {
	elements := make([][]byte, len(pk.B)+1)
	elements[0] = []byte(DomainFingerprint)
	for i, x := range pk.B {
		elements[i+1] = x.Bytes()
	}
	return utils.HashConcat(elements...)
}

// Zeroize clears the private values of a key pair. The key pair must not be
// used afterwards.
func Zeroize(kp *knapsack.KeyPair) {
	utils.ZeroizeBigInts(kp.PrivateKey.W...)
	utils.ZeroizeBigInts(kp.PrivateKey.Q, kp.PrivateKey.R)
}
