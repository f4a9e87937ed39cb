package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/epitope-ranker/internal/config"
	"github.com/jonathan/epitope-ranker/internal/dataset"
	"github.com/jonathan/epitope-ranker/internal/observability"
	"github.com/jonathan/epitope-ranker/internal/threshold"
	"github.com/jonathan/epitope-ranker/internal/types"
	"github.com/spf13/cobra"
)

// loadConfig reads the --config file and environment. Every validation error
// is reported, not just the first.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, errs := config.Load(path)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// thresholdFlags are the -a/-t pair shared by the ranking commands.
type thresholdFlags struct {
	attribute string
	value     float64
}

func (f *thresholdFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.attribute, "attribute", "a", "", "Score attribute: percentile or bindingScore (default from config)")
	cmd.Flags().Float64VarP(&f.value, "threshold", "t", 0, "Threshold value; scores <= value pass (default from config)")
}

// resolve starts from the configured slider state and applies the flags that
// were set. An explicit -t value is used as given, without clamping.
func (f *thresholdFlags) resolve(cmd *cobra.Command, cfg *config.Config) (types.Threshold, error) {
	state := cfg.ThresholdState()
	if f.attribute != "" {
		attr, err := types.ParseAttribute(f.attribute)
		if err != nil {
			return types.Threshold{}, err
		}
		if err := state.Select(attr); err != nil {
			return types.Threshold{}, err
		}
	}

	t := state.Current()
	if cmd.Flags().Changed("threshold") {
		if err := threshold.CheckFinite(f.value); err != nil {
			return types.Threshold{}, fmt.Errorf("invalid --threshold: %w", err)
		}
		t.Value = f.value
	}
	return t, nil
}

// minAllelesFlag returns -m when set, otherwise the configured minimum.
func minAllelesFlag(cmd *cobra.Command, value int, cfg *config.Config) (int, error) {
	if !cmd.Flags().Changed("min-alleles") {
		return cfg.MinAlleles, nil
	}
	if value < 1 {
		return 0, fmt.Errorf("--min-alleles must be at least 1, got %d", value)
	}
	return value, nil
}

// loadPeptide loads a dataset and returns the peptide at index.
func loadPeptide(path string, index int, cfg *config.Config) (types.Peptide, error) {
	ds, err := dataset.Load(path, dataset.Options{SchemaPath: cfg.SchemaPath})
	if err != nil {
		return types.Peptide{}, fmt.Errorf("failed to load dataset: %w", err)
	}
	if index < 0 || index >= len(ds.Peptides) {
		return types.Peptide{}, fmt.Errorf("peptide index %d out of range: %s has %d peptides", index, path, len(ds.Peptides))
	}
	return ds.Peptides[index], nil
}

// writeJSON writes v as indented JSON to outPath, or to stdout when outPath is empty.
func writeJSON(stdout io.Writer, outPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err := stdout.Write(data)
		return err
	}

	// Ensure output directory exists
	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outPath, err)
	}
	return nil
}

// verbosePrinter returns a stderr printer when --verbose is set, otherwise nil.
func verbosePrinter(cmd *cobra.Command) *observability.Printer {
	if v, _ := cmd.Flags().GetBool("verbose"); !v {
		return nil
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
