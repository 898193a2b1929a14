package keygen

import (
	"bytes"
	"errors"
	"math/big"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	knapsack "github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/core"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/problems/subsetsum"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/utils"
)

func ints(values ...int64) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = big.NewInt(v)
	}
	return out
}

func testSeed(t *testing.T) []byte {
	t.Helper()
	seed, err := utils.SecureRandomBytes(32)
	require.NoError(t, err)
	return seed
}

func requireValidKey(t *testing.T, kp *knapsack.KeyPair) {
	t.Helper()
	sk := kp.PrivateKey
	n := kp.Params.BitLength()

	require.Len(t, sk.W, n)
	require.Len(t, kp.PublicKey.B, n)
	require.Equal(t, 1, sk.W[0].Cmp(big.NewInt(0)), "w[0] must be >= 1")

	sum := new(big.Int)
	for i, x := range sk.W {
		if i > 0 {
			require.Equal(t, 1, x.Cmp(sum), "w[%d] must exceed the prefix sum", i)
		}
		sum.Add(sum, x)
	}
	require.Equal(t, 1, sk.Q.Cmp(sum), "q must exceed sum(w)")
	require.Equal(t, 0, new(big.Int).GCD(nil, nil, sk.R, sk.Q).Cmp(big.NewInt(1)), "gcd(r, q) must be 1")
	require.Equal(t, 0, sk.R.Cmp(new(big.Int).Sub(sk.Q, big.NewInt(1))), "r must be q-1")

	for i, x := range sk.W {
		want := new(big.Int).Mul(x, sk.R)
		want.Mod(want, sk.Q)
		require.Equal(t, 0, want.Cmp(kp.PublicKey.B[i]), "b[%d] mismatch", i)
	}
}

func TestGenerateKeyPair(t *testing.T) {
	for _, params := range []knapsack.Params{core.SmallParams, core.TestParams} {
		t.Run(string(params.Name), func(t *testing.T) {
			kp, err := GenerateKeyPair(params)
			require.NoError(t, err)
			require.Equal(t, params, kp.Params)
			requireValidKey(t, kp)
		})
	}
}

func TestGenerateKeyPair_Default(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-size key generation in short mode")
	}
	kp, err := GenerateKeyPair(core.DefaultParams)
	require.NoError(t, err)
	requireValidKey(t, kp)
}

func TestGenerateKeyPairFromSeed_Deterministic(t *testing.T) {
	seed := testSeed(t)

	kp1, err := GenerateKeyPairFromSeed(core.TestParams, seed)
	require.NoError(t, err)
	kp2, err := GenerateKeyPairFromSeed(core.TestParams, seed)
	require.NoError(t, err)

	require.Equal(t, 0, kp1.PrivateKey.Q.Cmp(kp2.PrivateKey.Q))
	for i := range kp1.PrivateKey.W {
		require.Equal(t, 0, kp1.PrivateKey.W[i].Cmp(kp2.PrivateKey.W[i]), "w[%d] differs", i)
	}
	require.Equal(t, Fingerprint(&kp1.PublicKey), Fingerprint(&kp2.PublicKey))
	requireValidKey(t, kp1)

	kp3, err := GenerateKeyPairFromSeed(core.TestParams, testSeed(t))
	require.NoError(t, err)
	require.NotEqual(t, Fingerprint(&kp1.PublicKey), Fingerprint(&kp3.PublicKey))
}

func TestGenerateKeyPairFromSeed_WeakSeed(t *testing.T) {
	_, err := GenerateKeyPairFromSeed(core.TestParams, make([]byte, 32))
	require.Error(t, err)

	_, err = GenerateKeyPairFromSeed(core.TestParams, []byte("short"))
	require.Error(t, err)
}

func TestGenerate_InvalidParams(t *testing.T) {
	_, err := Generate(knapsack.Params{MaxChars: 0, MaxBits: 8}, nil)
	require.Error(t, err)

	_, err = Generate(knapsack.Params{MaxChars: 4, MaxBits: 0}, nil)
	require.Error(t, err)
}

func TestGenerate_EntropyFailure(t *testing.T) {
	// Enough bytes for a few elements, then EOF
	_, err := Generate(core.SmallParams, bytes.NewReader(make([]byte, 5)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "drawing element")
}

func TestGenerate_ZeroEntropy(t *testing.T) {
	// An all-zero stream gives increments of 1: w = 1, 2, 4, ... and q = 2^N
	params := knapsack.Params{Name: "zeros", MaxChars: 1, MaxBits: 8}
	kp, err := Generate(params, bytes.NewReader(make([]byte, 9)))
	require.NoError(t, err)
	for i, x := range kp.PrivateKey.W {
		require.Equal(t, int64(1)<<i, x.Int64())
	}
	require.Equal(t, int64(256), kp.PrivateKey.Q.Int64())
	requireValidKey(t, kp)
}

func TestNewPrivateKey_WorkedExample(t *testing.T) {
	sk, err := NewPrivateKey(ints(2, 3, 7, 20), big.NewInt(41), big.NewInt(40))
	require.NoError(t, err)
	pk := PublicKeyOf(sk)

	want := []int64{39, 38, 34, 21}
	require.Len(t, pk.B, len(want))
	for i, x := range pk.B {
		require.Equal(t, want[i], x.Int64(), "b[%d]", i)
	}
}

func TestNewPrivateKey_CopiesInputs(t *testing.T) {
	w := ints(2, 3, 7, 20)
	q := big.NewInt(41)
	sk, err := NewPrivateKey(w, q, big.NewInt(40))
	require.NoError(t, err)

	w[0].SetInt64(100)
	q.SetInt64(1)
	require.Equal(t, int64(2), sk.W[0].Int64())
	require.Equal(t, int64(41), sk.Q.Int64())
}

func TestNewPrivateKey_Rejects(t *testing.T) {
	_, err := NewPrivateKey(ints(2, 3), nil, big.NewInt(4))
	require.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewPrivateKey([]*big.Int{big.NewInt(2), nil}, big.NewInt(9), big.NewInt(8))
	require.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewPrivateKey(ints(2, 2), big.NewInt(9), big.NewInt(8))
	require.ErrorIs(t, err, ErrNotSuperincreasing)
}

func TestNewKeyPair_WidthMustMatchParams(t *testing.T) {
	_, err := NewKeyPair(core.SmallParams, ints(2, 3, 7, 20), big.NewInt(41), big.NewInt(40))
	require.ErrorIs(t, err, ErrWidthMismatch)

	_, err = NewKeyPair(knapsack.Params{}, ints(2, 3, 7, 20), big.NewInt(41), big.NewInt(40))
	require.Error(t, err)
}

func TestNewKeyPair_Consistent(t *testing.T) {
	params := knapsack.Params{Name: "one byte", MaxChars: 1, MaxBits: 4}
	w := ints(1, 2, 4, 8, 16, 32, 64, 128)
	q := big.NewInt(257)
	kp, err := NewKeyPair(params, w, q, big.NewInt(256))
	require.NoError(t, err)
	requireValidKey(t, kp)

	// Inputs are copied
	w[0].SetInt64(100)
	q.SetInt64(1)
	require.Equal(t, int64(1), kp.PrivateKey.W[0].Int64())
	require.Equal(t, int64(257), kp.PrivateKey.Q.Int64())
}

func TestValidatePrivateKey(t *testing.T) {
	tests := []struct {
		name string
		sk   knapsack.PrivateKey
		want error
	}{
		{"empty", knapsack.PrivateKey{Q: big.NewInt(5), R: big.NewInt(4)}, ErrEmptyKey},
		{"nil modulus", knapsack.PrivateKey{W: ints(1), R: big.NewInt(4)}, ErrEmptyKey},
		{"not superincreasing", knapsack.PrivateKey{W: ints(2, 2), Q: big.NewInt(9), R: big.NewInt(8)}, ErrNotSuperincreasing},
		{"zero first", knapsack.PrivateKey{W: ints(0, 1), Q: big.NewInt(9), R: big.NewInt(8)}, ErrNotSuperincreasing},
		{"modulus equals sum", knapsack.PrivateKey{W: ints(2, 3), Q: big.NewInt(5), R: big.NewInt(4)}, ErrModulusTooSmall},
		{"not coprime", knapsack.PrivateKey{W: ints(2, 3), Q: big.NewInt(10), R: big.NewInt(4)}, ErrNotCoprime},
		{"zero multiplier", knapsack.PrivateKey{W: ints(2, 3), Q: big.NewInt(7), R: big.NewInt(0)}, ErrNotCoprime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrivateKey(&tt.sk)
			require.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}

	valid := knapsack.PrivateKey{W: ints(2, 3, 7, 20), Q: big.NewInt(41), R: big.NewInt(17)}
	require.NoError(t, ValidatePrivateKey(&valid))
}

func TestDerivePublicSequence_Parallel(t *testing.T) {
	old := runtime.GOMAXPROCS(4)
	defer runtime.GOMAXPROCS(old)

	kp, err := GenerateKeyPair(core.TestParams)
	require.NoError(t, err)
	require.GreaterOrEqual(t, kp.Params.BitLength(), parallelThreshold)

	// Sequential reference
	sk := kp.PrivateKey
	for i, x := range DerivePublicSequence(sk.W, sk.Q, sk.R) {
		want := new(big.Int).Mul(sk.W[i], sk.R)
		want.Mod(want, sk.Q)
		require.Equal(t, 0, x.Cmp(want), "b[%d] mismatch", i)
	}
}

func TestFingerprint(t *testing.T) {
	sk, err := NewPrivateKey(ints(2, 3, 7, 20), big.NewInt(41), big.NewInt(40))
	require.NoError(t, err)

	fp := Fingerprint(PublicKeyOf(sk))
	require.Len(t, fp, 32)

	other, err := NewPrivateKey(ints(2, 3, 7, 20), big.NewInt(41), big.NewInt(17))
	require.NoError(t, err)
	require.NotEqual(t, fp, Fingerprint(PublicKeyOf(other)))
}

func TestZeroize(t *testing.T) {
	kp, err := GenerateKeyPair(core.SmallParams)
	require.NoError(t, err)
	Zeroize(kp)
	require.Equal(t, 0, kp.PrivateKey.Q.Sign())
	require.Equal(t, 0, subsetsum.Sum(kp.PrivateKey.W).Sign())
}

func BenchmarkGenerateKeyPair_Test(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := GenerateKeyPair(core.TestParams)
		require.NoError(b, err)
	}
}

func BenchmarkGenerateKeyPair_Default(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := GenerateKeyPair(core.DefaultParams)
		require.NoError(b, err)
	}
}
