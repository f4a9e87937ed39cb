// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/epitope-ranker/internal/dataset"
	"github.com/jonathan/epitope-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDatasetSummary outputs the name, format and size of a loaded dataset.
func (p *Printer) PrintDatasetSummary(ds *dataset.Dataset) {
	if ds == nil {
		return
	}

	epitopes := 0
	alleles := make(map[string]struct{})
	for _, peptide := range ds.Peptides {
		epitopes += len(peptide.Epitopes)
		for _, epitope := range peptide.Epitopes {
			for allele := range epitope.Scores {
				alleles[allele] = struct{}{}
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", ds.Name))
	sb.WriteString(fmt.Sprintf("Format:   %s\n", ds.Format))
	sb.WriteString(fmt.Sprintf("Peptides: %d\n", len(ds.Peptides)))
	sb.WriteString(fmt.Sprintf("Epitopes: %d\n", epitopes))
	sb.WriteString(fmt.Sprintf("Alleles:  %d", len(alleles)))

	p.printBox("LOADED DATASET", sb.String())
}

// PrintRankedDataset outputs the top N peptides with scores and highlighted epitopes.
func (p *Printer) PrintRankedDataset(ranked *types.RankedDataset) {
	if ranked == nil || len(ranked.Peptides) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Threshold: %s, min alleles %d\n", ranked.Threshold, ranked.MinAlleles))
	sb.WriteString(fmt.Sprintf("Total peptides ranked: %d\n\n", len(ranked.Peptides)))

	count := min(len(ranked.Peptides), maxItemsToShow)
	for i := 0; i < count; i++ {
		row := ranked.Peptides[i]
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, row.Peptide.Label()))
		if row.Peptide.Mutation != "" {
			sb.WriteString(fmt.Sprintf(" %s", row.Peptide.Mutation))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Score: %d  Highlights: %d\n", row.Score, len(row.Highlights)))
		if len(row.Highlights) > 0 {
			sequences := make([]string, 0, len(row.Highlights))
			for _, e := range row.Highlights {
				sequences = append(sequences, e.Sequence)
			}
			joined := strings.Join(sequences, ", ")
			if len(joined) > 40 {
				joined = joined[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Epitopes: %s\n", joined))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked.Peptides) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more peptides", len(ranked.Peptides)-maxItemsToShow))
	}

	p.printBox("TOP RANKED PEPTIDES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEpitopeViews outputs the strongest epitopes of one peptide.
func (p *Printer) PrintEpitopeViews(peptide types.Peptide, views []types.EpitopeView) {
	if len(views) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Peptide:  %s\n", peptide.Label()))
	sb.WriteString(fmt.Sprintf("Sequence: %s\n\n", peptide.Sequence))

	count := min(len(views), maxItemsToShow)
	for i := 0; i < count; i++ {
		v := views[i]
		marker := " "
		if v.OverlapsMutation {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %-12s @%-3d %d alleles\n", marker, v.Epitope.Sequence, v.Epitope.Start, v.AllelesPassing))
	}

	if len(views) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more epitopes\n", len(views)-maxItemsToShow))
	}
	sb.WriteString("\n* overlaps the mutation")

	p.printBox("EPITOPES BY PASSING ALLELES", sb.String())
}
