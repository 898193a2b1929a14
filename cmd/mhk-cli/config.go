package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	knapsack "github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem"
	"github.com/Stephen-X/Merkle-Hellman-Knapsack-Cryptosystem/core"
)

// Environment variables read by the CLI. A .env file supplies values for
// variables that are not set in the process environment.
const (
	EnvParams   = "MHK_PARAMS"
	EnvMaxChars = "MHK_MAX_CHARS"
	EnvMaxBits  = "MHK_MAX_BITS"
	EnvSeed     = "MHK_SEED"
	EnvDebug    = "MHK_DEBUG"

	defaultEnvFile = ".env"
)

// CLIConfig holds CLI configuration
type CLIConfig struct {
	Params  knapsack.Params
	Seed    []byte // Derive keys from this seed instead of crypto/rand
	Verbose bool
	Timing  bool
}

// lookupFunc resolves a configuration variable.
type lookupFunc func(key string) (string, bool)

// envLookup resolves variables from the process environment first and then
// from the .env file at path. A missing default file is not an error.
func envLookup(path string) (lookupFunc, error) {
	fileVars := map[string]string{}
	if path == "" {
		path = defaultEnvFile
	}
	vars, err := godotenv.Read(path)
	switch {
	case err == nil:
		fileVars = vars
	case errors.Is(err, os.ErrNotExist) && path == defaultEnvFile:
		// no .env file
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// parseConfig layers defaults, environment and command-line flags, in that
// order of increasing precedence.
func parseConfig(args []string, lookup lookupFunc) (CLIConfig, error) {
	config := CLIConfig{Params: core.DefaultParams}

	name := getArg(args, "--params", "-p")
	if name == "" {
		name, _ = lookup(EnvParams)
	}
	if name != "" {
		params, err := core.GetParams(knapsack.ParamsName(name))
		if err != nil {
			return config, fmt.Errorf("invalid parameter set '%s'. Must be one of: default, small, test", name)
		}
		config.Params = params
	}

	maxChars, err := intSetting(args, lookup, "--max-chars", "-c", EnvMaxChars)
	if err != nil {
		return config, err
	}
	if maxChars != 0 {
		config.Params.MaxChars = maxChars
		config.Params.Name = "custom"
	}

	maxBits, err := intSetting(args, lookup, "--max-bits", "-b", EnvMaxBits)
	if err != nil {
		return config, err
	}
	if maxBits != 0 {
		config.Params.MaxBits = maxBits
		config.Params.Name = "custom"
	}

	if err := core.ValidateParams(config.Params); err != nil {
		return config, fmt.Errorf("invalid parameters: %w", err)
	}

	seedHex := getArg(args, "--seed", "-s")
	if seedHex == "" {
		seedHex, _ = lookup(EnvSeed)
	}
	if seedHex != "" {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return config, fmt.Errorf("invalid seed hex: %w", err)
		}
		config.Seed = seed
	}

	debug, _ := lookup(EnvDebug)
	config.Verbose = hasFlag(args, "--verbose", "-v") || isTrue(debug)
	config.Timing = hasFlag(args, "--timing", "-t")

	return config, nil
}

// intSetting reads an integer from a flag, falling back to an environment
// variable. Zero means unset.
func intSetting(args []string, lookup lookupFunc, long, short, env string) (int, error) {
	raw := getArg(args, long, short)
	source := long
	if raw == "" {
		raw, _ = lookup(env)
		source = env
	}
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s '%s': must be a positive integer", source, raw)
	}
	return v, nil
}

func isTrue(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || args[i] == short {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || arg == short {
			return true
		}
	}
	return false
}
