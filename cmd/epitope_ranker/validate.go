package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/epitope-ranker/internal/dataset"
	"github.com/jonathan/epitope-ranker/internal/schemas"
	"github.com/jonathan/epitope-ranker/internal/types"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var inputs []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate peptide dataset files",
		Long:  "Checks each dataset against the peptide JSON schema and the data model rules, reporting every failing field.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range inputs {
				ds, err := dataset.Load(path, dataset.Options{SchemaPath: cfg.SchemaPath})
				if err != nil {
					failed++
					_, _ = fmt.Fprintf(out, "Validation failed: %s\n", path)
					printValidationErrors(cmd, err)
					continue
				}
				_, _ = fmt.Fprintf(out, "Validation passed: %s (%d peptides, %s format)\n", path, len(ds.Peptides), ds.Format)
				if p := verbosePrinter(cmd); p != nil {
					p.PrintDatasetSummary(ds)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d datasets failed validation", failed, len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Path to peptide dataset JSON (repeatable, required)")
	markRequired(cmd, "input")
	return cmd
}

// printValidationErrors lists field errors one per line when err carries them.
func printValidationErrors(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		for _, fe := range schemaErr.Errors {
			_, _ = fmt.Fprintf(w, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return
	}

	var peptideErr *dataset.PeptideError
	var fieldErr *types.ValidationError
	if errors.As(err, &peptideErr) && errors.As(err, &fieldErr) {
		for _, fe := range fieldErr.Errors {
			_, _ = fmt.Fprintf(w, "  - peptides[%d].%s: %s\n", peptideErr.Index, fe.Field, fe.Message)
		}
		return
	}

	_, _ = fmt.Fprintf(w, "  - %v\n", err)
}
