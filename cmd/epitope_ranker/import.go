package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/epitope-ranker/internal/dataset"
	"github.com/jonathan/epitope-ranker/internal/db"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		inputs []string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import peptide datasets into PostgreSQL",
		Long: "Validates one or more dataset files and stores them as a single dataset that the API " +
			"server can rank. Requires DATABASE_URL.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}

			ds, err := dataset.LoadAll(cmd.Context(), inputs, dataset.Options{SchemaPath: cfg.SchemaPath})
			if err != nil {
				return fmt.Errorf("failed to load datasets: %w", err)
			}
			if strings.TrimSpace(name) != "" {
				ds.Name = name
			}
			if p := verbosePrinter(cmd); p != nil {
				p.PrintDatasetSummary(ds)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			database, err := db.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			if err := database.EnsureSchema(ctx); err != nil {
				return err
			}

			id, err := database.CreateDataset(ctx, ds.Name, ds.Peptides)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d peptides as %q\n", len(ds.Peptides), ds.Name)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dataset ID: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Path to peptide dataset JSON (repeatable, required)")
	cmd.Flags().StringVar(&name, "name", "", "Dataset name (default derived from the file names)")
	markRequired(cmd, "input")
	return cmd
}
