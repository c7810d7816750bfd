package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wortlupe/wortlupe/vocab"
)

func vocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect the vocabulary cache",
	}

	cmd.AddCommand(vocabStatsCmd())
	cmd.AddCommand(vocabExportCmd())
	cmd.AddCommand(vocabLookupCmd())

	return cmd
}

// openStore loads the configured vocabulary store.
func openStore() (*vocab.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := setupLogging(cfg)
	return vocab.Open(cfg.Vocab.Path, vocab.WithLogger(logger)), nil
}

func vocabStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print vocabulary size and location",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			fmt.Printf("%d entries in %s\n", store.Len(), store.Path())
			return nil
		},
	}
}

func vocabExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the vocabulary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(store.Snapshot(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal vocabulary: %w", err)
			}
			data = append(data, '\n')

			if outPath == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Printf("Wrote %d entries to %s\n", store.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func vocabLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <lemma>",
		Short: "Look up one lemma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			translation, ok := store.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%q is not in the vocabulary", args[0])
			}
			fmt.Printf("%s = %s\n", args[0], translation)
			return nil
		},
	}
}
