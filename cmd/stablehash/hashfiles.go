package main

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/abourget/llerrgroup"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/cli/sflags"
	"github.com/streamingfast/dstore"
	"github.com/streamingfast/stablehash"
	"go.uber.org/zap"
)

var hashFilesCmd = Command(hashFilesE,
	"hash-files <store-url>",
	"Computes the stable digest of every JSON file in a store",
	Description(`
		Walks <store-url> (local path, s3://, gs:// or az:// URL as supported by dstore) and
		prints one line per JSON document found, its path followed by its stable digest.
		Files are fetched and hashed in parallel, output is sorted by path.
	`),
	ExactArgs(1),
	Flags(func(flags *pflag.FlagSet) {
		flags.String("backend", "fast", "Hashing backend, either 'fast' (xxh3 based, 128-bit) or 'crypto' (blake3 based, 256-bit)")
		flags.String("prefix", "", "Only hash files under this prefix within the store")
		flags.Int("parallelism", 8, "Number of files fetched and hashed concurrently")
	}),
)

func hashFilesE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	storeURL := args[0]
	backend := sflags.MustGetString(cmd, "backend")
	prefix := sflags.MustGetString(cmd, "prefix")
	parallelism := sflags.MustGetInt(cmd, "parallelism")

	// Validate eagerly so an invalid backend fails before any fetch.
	if _, err := digestOf(backend, stablehash.Bool(false)); err != nil {
		return err
	}

	store, err := dstore.NewStore(storeURL, "", "", false)
	if err != nil {
		return fmt.Errorf("unable to create store at %q: %w", storeURL, err)
	}

	var filenames []string
	err = store.Walk(ctx, prefix, func(filename string) error {
		filenames = append(filenames, filename)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking store %q: %w", storeURL, err)
	}

	zlog.Info("files to hash", zap.Int("file_count", len(filenames)), zap.String("store", storeURL))

	t0 := time.Now()

	digests := make(map[string]string, len(filenames))
	var lock sync.Mutex

	llg := llerrgroup.New(parallelism)
	for _, f := range filenames {
		if llg.Stop() {
			break
		}
		filename := f

		llg.Go(func() error {
			digest, err := hashOneFile(cmd, store, filename, backend)
			if err != nil {
				return fmt.Errorf("hashing %q: %w", filename, err)
			}

			lock.Lock()
			digests[filename] = digest
			lock.Unlock()

			return nil
		})
	}

	if err := llg.Wait(); err != nil {
		return err
	}

	sort.Strings(filenames)
	for _, filename := range filenames {
		fmt.Printf("%s %s\n", filename, digests[filename])
	}

	zlog.Info("done", zap.Int("file_count", len(filenames)), zap.Duration("elapsed", time.Since(t0)))
	return nil
}

func hashOneFile(cmd *cobra.Command, store dstore.Store, filename string, backend string) (string, error) {
	reader, err := store.OpenObject(cmd.Context(), filename)
	if err != nil {
		return "", fmt.Errorf("opening object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading object: %w", err)
	}

	value, err := stablehash.FromJSON(data)
	if err != nil {
		return "", fmt.Errorf("parsing document: %w", err)
	}

	return digestOf(backend, value)
}
