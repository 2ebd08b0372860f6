package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/cli/sflags"
	"github.com/streamingfast/stablehash"
)

var hashCmd = Command(hashE,
	"hash <input-file>",
	"Computes the stable digest of a JSON document",
	Description(`
		Reads the JSON document in <input-file> ('-' reads from standard input) and prints its
		stable digest. Whitespace and object key order never change the digest; integer
		literals and fraction-or-exponent literals are distinct values even when numerically
		equal (100 vs 1e2).
	`),
	ExactArgs(1),
	Flags(func(flags *pflag.FlagSet) {
		flags.String("backend", "fast", "Hashing backend, either 'fast' (xxh3 based, 128-bit) or 'crypto' (blake3 based, 256-bit)")
	}),
)

func hashE(cmd *cobra.Command, args []string) error {
	inputFile := args[0]
	backend := sflags.MustGetString(cmd, "backend")

	data, err := readInput(inputFile)
	if err != nil {
		return fmt.Errorf("reading %q: %w", inputFile, err)
	}

	value, err := stablehash.FromJSON(data)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", inputFile, err)
	}

	digest, err := digestOf(backend, value)
	if err != nil {
		return err
	}

	fmt.Println(digest)
	return nil
}

func readInput(inputFile string) ([]byte, error) {
	if inputFile == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(inputFile)
}

func digestOf(backend string, value stablehash.Hashable) (string, error) {
	switch backend {
	case "fast":
		digest := stablehash.FastHash(value)

		hi, lo := digest.Raw()
		out := make([]byte, 16)
		binary.BigEndian.PutUint64(out[0:8], hi)
		binary.BigEndian.PutUint64(out[8:16], lo)

		return hex.EncodeToString(out), nil

	case "crypto":
		digest := stablehash.CryptoHash(value)
		return hex.EncodeToString(digest[:]), nil

	default:
		return "", fmt.Errorf("invalid backend %q, accepting either 'fast' or 'crypto'", backend)
	}
}
