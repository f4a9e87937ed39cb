package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/epitope-ranker/internal/schemas"
	"github.com/jonathan/epitope-ranker/internal/types"
	"golang.org/x/sync/errgroup"
)

// Format identifies the JSON layout of a dataset file.
type Format string

const (
	// FormatViz is an array of peptides (or {"peptides": [...]}) in the shape the renderer consumes.
	FormatViz Format = "viz"
	// FormatGrouped is the grouped-epitopes output of the prediction pipeline.
	FormatGrouped Format = "grouped"
)

// maxConcurrentLoads bounds LoadAll's parallel file reads.
const maxConcurrentLoads = 4

// Options controls validation while loading.
type Options struct {
	// SchemaPath overrides the embedded peptides schema.
	SchemaPath string
	// SkipSchema disables JSON Schema validation; struct validation always runs.
	SkipSchema bool
}

// Dataset is a fully loaded, validated collection of peptides.
type Dataset struct {
	Name     string          `json:"name"`
	Format   Format          `json:"format"`
	Peptides []types.Peptide `json:"peptides"`
}

type namedDocument struct {
	Name     string          `json:"name"`
	Peptides []types.Peptide `json:"peptides"`
}

// Load reads and validates the dataset file at path.
func Load(path string, opts Options) (*Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	ds, err := Parse(content, opts)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Path == "" {
			loadErr.Path = path
		}
		return nil, err
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ds, nil
}

// Parse decodes a dataset document, auto-detecting its format.
func Parse(data []byte, opts Options) (*Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &LoadError{Message: "empty document"}
	}
	if !json.Valid(trimmed) {
		return nil, &LoadError{Message: "malformed JSON"}
	}

	format, err := detectFormat(trimmed)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Format: format}
	switch format {
	case FormatGrouped:
		var grouped []groupedPeptide
		if err := json.Unmarshal(trimmed, &grouped); err != nil {
			return nil, &LoadError{Message: "failed to unmarshal grouped epitopes JSON", Cause: err}
		}
		ds.Peptides = make([]types.Peptide, 0, len(grouped))
		for i, g := range grouped {
			peptide, err := g.toPeptide()
			if err != nil {
				return nil, &PeptideError{Index: i, Cause: err}
			}
			ds.Peptides = append(ds.Peptides, peptide)
		}

	default:
		if !opts.SkipSchema {
			if err := schemas.ValidatePeptides(opts.SchemaPath, trimmed); err != nil {
				return nil, err
			}
		}
		if trimmed[0] == '{' {
			var doc namedDocument
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return nil, &LoadError{Message: "failed to unmarshal peptides JSON", Cause: err}
			}
			ds.Name = doc.Name
			ds.Peptides = doc.Peptides
		} else if err := json.Unmarshal(trimmed, &ds.Peptides); err != nil {
			return nil, &LoadError{Message: "failed to unmarshal peptides JSON", Cause: err}
		}
	}

	if ds.Peptides == nil {
		ds.Peptides = []types.Peptide{}
	}
	if err := Prepare(ds.Peptides); err != nil {
		return nil, err
	}
	return ds, nil
}

// Prepare normalizes peptides in place and validates each one.
func Prepare(peptides []types.Peptide) error {
	for i := range peptides {
		normalize(&peptides[i])
		if err := peptides[i].Validate(); err != nil {
			return &PeptideError{Index: i, Cause: err}
		}
	}
	return nil
}

// LoadAll loads several files concurrently and concatenates their peptides in argument order.
func LoadAll(ctx context.Context, paths []string, opts Options) (*Dataset, error) {
	if len(paths) == 0 {
		return nil, &LoadError{Message: "no input files"}
	}

	results := make([]*Dataset, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			ds, err := Load(path, opts)
			if err != nil {
				return err
			}
			results[i] = ds
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(results) == 1 {
		return results[0], nil
	}

	merged := &Dataset{Format: results[0].Format, Peptides: []types.Peptide{}}
	names := make([]string, 0, len(results))
	for _, ds := range results {
		names = append(names, ds.Name)
		merged.Peptides = append(merged.Peptides, ds.Peptides...)
		if ds.Format != merged.Format {
			merged.Format = FormatViz
		}
	}
	merged.Name = strings.Join(names, "+")
	return merged, nil
}

// detectFormat inspects the first element of an array document for pipeline column names.
func detectFormat(doc []byte) (Format, error) {
	switch doc[0] {
	case '{':
		return FormatViz, nil
	case '[':
	default:
		return "", &LoadError{Message: fmt.Sprintf("unexpected document start %q: want array or object", doc[0])}
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(doc, &entries); err != nil {
		return "", &LoadError{Message: "failed to unmarshal JSON", Cause: err}
	}
	if len(entries) == 0 {
		return FormatViz, nil
	}
	for _, key := range []string{"Epitopes", "SourceSequence", "MutationStart"} {
		if _, ok := entries[0][key]; ok {
			return FormatGrouped, nil
		}
	}
	return FormatViz, nil
}

func normalize(p *types.Peptide) {
	if p.Gene == "" {
		p.Gene = p.TranscriptID
	}
	if p.Epitopes == nil {
		p.Epitopes = []types.Epitope{}
	}
	for i := range p.Epitopes {
		e := &p.Epitopes[i]
		if e.Sequence == "" && e.Start >= 0 && e.Length > 0 && e.End() <= len(p.Sequence) {
			e.Sequence = p.Sequence[e.Start:e.End()]
		}
	}
}
