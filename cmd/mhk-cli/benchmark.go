package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	knapsack "github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/cipher"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/keygen"
)

func (a *app) benchmark(config CLIConfig, args []string) error {
	iterations := 10
	if s := getArg(args, "--iterations", "-n"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid --iterations '%s'", s)
		}
		iterations = n
	}
	if iterations < 1 {
		iterations = 1
	}

	params := config.Params
	fmt.Fprintf(a.stdout, "Knapsack Benchmark Results\n")
	fmt.Fprintf(a.stdout, "==========================\n")
	fmt.Fprintf(a.stdout, "Parameter set: %s (max chars %d, max bits %d, N=%d)\n",
		params.Name, params.MaxChars, params.MaxBits, params.BitLength())
	fmt.Fprintf(a.stdout, "Iterations: %d\n\n", iterations)

	// KeyGen
	var keygenTotal time.Duration
	var kp *knapsack.KeyPair
	for i := 0; i < iterations; i++ {
		start := time.Now()
		var err error
		kp, err = keygen.GenerateKeyPair(params)
		keygenTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("keygen: %w", err)
		}
	}
	fmt.Fprintf(a.stdout, "  KeyGen:  %v (avg)\n", keygenTotal/time.Duration(iterations))

	// Encrypt
	message := []byte(strings.Repeat("k", params.MaxChars))
	var encryptTotal time.Duration
	var c *big.Int
	for i := 0; i < iterations; i++ {
		start := time.Now()
		var err error
		c, err = cipher.Encrypt(&kp.PublicKey, message, params.MaxChars)
		encryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
	}
	fmt.Fprintf(a.stdout, "  Encrypt: %v (avg)\n", encryptTotal/time.Duration(iterations))

	// Decrypt
	var decryptTotal time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		plain, err := cipher.Decrypt(&kp.PrivateKey, c)
		decryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
		if string(plain) != string(message) {
			return fmt.Errorf("decrypt: round trip mismatch")
		}
	}
	fmt.Fprintf(a.stdout, "  Decrypt: %v (avg)\n", decryptTotal/time.Duration(iterations))

	fmt.Fprintf(a.stdout, "\n  Ciphertext digits: %d\n", len(c.String()))
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Benchmark complete!")
	return nil
}
