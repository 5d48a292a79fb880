// cmd/kvstore is the entry-point for the standalone store process.
//
// It speaks the line protocol over stdin/stdout and keeps its log in a
// single append-only file:
//
//	kvstore --data data.db
//	kvstore --data /var/lib/kv/store.db --verbose
//
// The process reads commands until EOF or EXIT. Diagnostics go to
// stderr; stdout carries only protocol replies.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bobboyms/kvstore/pkg/repl"
	"github.com/bobboyms/kvstore/pkg/storage"
)

func main() {
	var (
		dataPath string
		degree   int
		verbose  bool
	)

	root := &cobra.Command{
		Use:          "kvstore",
		Short:        "Durable single-node key-value store over stdin/stdout",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				// Development config loga em stderr; stdout é do protocolo
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
			}
			defer logger.Sync()

			opts := storage.DefaultOptions(dataPath)
			opts.Degree = degree
			opts.Logger = logger

			engine, err := storage.Open(opts)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer engine.Close()

			return repl.New(engine, os.Stdin, os.Stdout).Run()
		},
	}

	root.Flags().StringVar(&dataPath, "data", "data.db", "Path to the append-only log file")
	root.Flags().IntVar(&degree, "degree", 32, "Minimum degree of the index B+ tree")
	root.Flags().BoolVar(&verbose, "verbose", false, "Structured logging to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
