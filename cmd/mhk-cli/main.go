// Package main provides the mhk-cli command line interface for the
// Merkle-Hellman knapsack cryptosystem.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	knapsack "github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/cipher"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/core"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/keygen"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/logging"
)

const (
	version = "1.0.0"
	appName = "mhk-cli"
)

// app carries the streams and logger shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    logging.Logger
	lookup lookupFunc
}

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.run(os.Args[1:]))
}

// run executes one command and returns the process exit code.
func (a *app) run(args []string) int {
	if len(args) < 1 {
		a.printUsage()
		return 1
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "help", "--help", "-h":
		a.printUsage()
		return 0
	case "version", "--version", "-v":
		fmt.Fprintf(a.stdout, "%s version %s\n", appName, version)
		fmt.Fprintf(a.stdout, "knapsack library version %s\n", knapsack.Version)
		return 0
	}

	var handler func(CLIConfig, []string) error
	switch command {
	case "session":
		handler = a.session
	case "encrypt", "enc":
		handler = a.encrypt
	case "decrypt", "dec":
		handler = a.decrypt
	case "keyinfo":
		handler = a.keyInfo
	case "benchmark":
		handler = a.benchmark
	default:
		fmt.Fprintf(a.stderr, "Unknown command: %s\n", command)
		a.printUsage()
		return 1
	}

	if a.lookup == nil {
		lookup, err := envLookup(getArg(rest, "--env-file", "-e"))
		if err != nil {
			fmt.Fprintf(a.stderr, "Error loading configuration: %v\n", err)
			return 1
		}
		a.lookup = lookup
	}
	config, err := parseConfig(rest, a.lookup)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	if a.log == nil {
		a.log = logging.NewText(a.stderr, config.Verbose).With("cmd", command)
	}

	if err := handler(config, rest); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) printUsage() {
	fmt.Fprintf(a.stdout, `%s - Merkle-Hellman Knapsack Cryptosystem CLI

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    session     Generate keys, read one message from stdin, encrypt and decrypt it
    encrypt     Encrypt a message (--message) and show the round trip
    decrypt     Decrypt a ciphertext (--ciphertext) under keys derived from --seed
    keyinfo     Show key size information and the public key fingerprint
    benchmark   Run performance benchmarks
    version     Show version information
    help        Show this help message

OPTIONS:
    --params <default|small|test>   Parameter set (default: default)
    --max-chars <n>                 Maximum message length in bytes (default: 150)
    --max-bits <n>                  Bit length of random increments (default: 50)
    --seed <hex>                    Derive keys from a seed of at least 32 bytes
    --env-file <file>               Configuration file (default: .env)
    --timing                        Show timing information
    --verbose                       Verbose output

ENVIRONMENT:
    %s, %s, %s, %s, %s

WARNING:
    Merkle-Hellman is broken and offers no integrity protection. A ciphertext
    not produced under the same keys decrypts to meaningless text.

EXAMPLES:
    %s session
    %s encrypt --message "Hello World"
    %s encrypt --seed <hex> --message "Hello World"
    %s decrypt --seed <hex> --ciphertext 1234567
    %s benchmark --params test --iterations 10
`, appName, appName, EnvParams, EnvMaxChars, EnvMaxBits, EnvSeed, EnvDebug,
		appName, appName, appName, appName, appName)
}

// generate builds the key pair for a command, from the seed when one is given.
func (a *app) generate(config CLIConfig) (*knapsack.KeyPair, error) {
	ctx := context.Background()

	start := time.Now()
	var kp *knapsack.KeyPair
	var err error
	if config.Seed != nil {
		kp, err = keygen.GenerateKeyPairFromSeed(config.Params, config.Seed)
	} else {
		kp, err = keygen.GenerateKeyPair(config.Params)
	}
	elapsed := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("generating key pair: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(a.stderr, "Key generation took: %v\n", elapsed)
	}
	a.log.Debug(ctx, "generated key pair",
		"params", config.Params.Name,
		"n", config.Params.BitLength(),
		"modulus_bits", kp.PrivateKey.Q.BitLen(),
		"seeded", config.Seed != nil,
		logging.Redacted("private_key"),
	)
	return kp, nil
}

// session mirrors the classic interactive driver: keys are generated once,
// the user is prompted until a valid message is entered, then the message is
// encrypted and decrypted.
func (a *app) session(config CLIConfig, _ []string) error {
	kp, err := a.generate(config)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Public and private keys have been generated.")
	fmt.Fprintln(a.stdout)

	reader := bufio.NewReader(a.stdin)
	var message string
	for {
		fmt.Fprintln(a.stdout, "Enter a string and I will encrypt it as single large integer:")
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				return errors.New("no message entered")
			}
			return fmt.Errorf("reading message: %w", err)
		}
		message = strings.TrimRight(line, "\r\n")

		verr := cipher.ValidateMessage([]byte(message), config.Params.MaxChars)
		switch {
		case errors.Is(verr, cipher.ErrInvalidLength):
			fmt.Fprintf(a.stdout, "\nYour message should have at most %d bytes! Please try again.\n\n", config.Params.MaxChars)
		case errors.Is(verr, cipher.ErrEmptyMessage):
			fmt.Fprintf(a.stdout, "\nYour message should not be empty! Please try again.\n\n")
		case verr == nil && !utf8.ValidString(message):
			fmt.Fprintf(a.stdout, "\nYour message should be valid UTF-8 text! Please try again.\n\n")
		case verr != nil:
			fmt.Fprintf(a.stdout, "\nInvalid message: %v. Please try again.\n\n", verr)
		default:
			return a.report(config, kp, message)
		}
		if errors.Is(err, io.EOF) {
			return errors.New("no valid message entered")
		}
	}
}

// encrypt runs the round trip for a message given on the command line.
func (a *app) encrypt(config CLIConfig, args []string) error {
	message := getArg(args, "--message", "-m")
	if message == "" {
		return errors.New("--message is required")
	}
	if err := cipher.ValidateMessage([]byte(message), config.Params.MaxChars); err != nil {
		return err
	}
	if !utf8.ValidString(message) {
		return cipher.ErrInvalidUTF8
	}

	kp, err := a.generate(config)
	if err != nil {
		return err
	}
	return a.report(config, kp, message)
}

// report prints the clear text, the ciphertext and the result of decrypting
// it again.
func (a *app) report(config CLIConfig, kp *knapsack.KeyPair, message string) error {
	ctx := context.Background()

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Clear text:")
	fmt.Fprintln(a.stdout, message)
	fmt.Fprintf(a.stdout, "\nNumber of clear text bytes = %d\n", len(message))

	start := time.Now()
	encrypted, err := cipher.EncryptString(&kp.PublicKey, message, kp.Params.MaxChars)
	if err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(a.stderr, "Encryption took: %v\n", time.Since(start))
	}
	a.log.Debug(ctx, "encrypted message", "bytes", len(message), "ciphertext_digits", len(encrypted))

	fmt.Fprintf(a.stdout, "\n\"%s\" is encrypted as:\n", message)
	fmt.Fprintln(a.stdout, encrypted)

	start = time.Now()
	decrypted, err := cipher.DecryptString(&kp.PrivateKey, encrypted)
	if err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(a.stderr, "Decryption took: %v\n", time.Since(start))
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Result of decryption:")
	fmt.Fprintln(a.stdout, decrypted)
	return nil
}

// decrypt decrypts a ciphertext under keys re-derived from the seed.
func (a *app) decrypt(config CLIConfig, args []string) error {
	ciphertext := getArg(args, "--ciphertext", "-ct")
	if ciphertext == "" {
		return errors.New("--ciphertext is required")
	}
	if config.Seed == nil {
		return errors.New("--seed is required to re-derive the private key")
	}

	// Parse before spending time on key generation
	if _, err := cipher.ParseCiphertext(ciphertext); err != nil {
		return err
	}

	kp, err := a.generate(config)
	if err != nil {
		return err
	}
	plain, err := cipher.DecryptString(&kp.PrivateKey, ciphertext)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, plain)
	return nil
}

// keyInfo prints size information for a freshly generated key pair. No key
// material is written.
func (a *app) keyInfo(config CLIConfig, _ []string) error {
	kp, err := a.generate(config)
	if err != nil {
		return err
	}
	sk := kp.PrivateKey
	n := kp.Params.BitLength()

	fmt.Fprintf(a.stdout, "Parameter set:         %s\n", kp.Params.Name)
	fmt.Fprintf(a.stdout, "Max message bytes:     %d\n", kp.Params.MaxChars)
	fmt.Fprintf(a.stdout, "Increment bits:        %d\n", kp.Params.MaxBits)
	fmt.Fprintf(a.stdout, "Sequence length (N):   %d\n", n)
	fmt.Fprintf(a.stdout, "Largest w bits:        %d\n", sk.W[n-1].BitLen())
	fmt.Fprintf(a.stdout, "Modulus bits:          %d\n", sk.Q.BitLen())
	fmt.Fprintf(a.stdout, "Estimated key bytes:   %d\n", core.EstimateKeyBytes(kp.Params))
	fmt.Fprintf(a.stdout, "Public key fingerprint: %s\n", hex.EncodeToString(keygen.Fingerprint(&kp.PublicKey)))
	return nil
}
