// Package types provides type definitions for structured data used throughout the epitope-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Score is the binding prediction for one (epitope, allele) pair.
type Score struct {
	Percentile   float64 `json:"percentile"`
	BindingScore float64 `json:"bindingScore"`
}

// Value returns the score field named by attr.
func (s Score) Value(attr Attribute) (float64, error) {
	switch attr {
	case AttributePercentile:
		return s.Percentile, nil
	case AttributeBindingScore:
		return s.BindingScore, nil
	default:
		return 0, &InvalidAttributeError{Attribute: string(attr)}
	}
}

// Epitope is a contiguous substring of its parent peptide, scored per HLA allele.
type Epitope struct {
	Start    int              `json:"start" validate:"gte=0"`
	Length   int              `json:"length" validate:"gt=0"`
	Sequence string           `json:"sequence"`
	Scores   map[string]Score `json:"scores" validate:"dive,keys,required,endkeys"`
}

// End returns the exclusive end offset of the epitope in its peptide.
func (e Epitope) End() int {
	return e.Start + e.Length
}

// Peptide is the top-level record being ranked. MutStart and MutEnd mark the
// half-open mutated range within Sequence.
type Peptide struct {
	Sequence     string    `json:"sequence" validate:"required"`
	Gene         string    `json:"gene,omitempty"`
	Description  string    `json:"description,omitempty"`
	TranscriptID string    `json:"transcriptId,omitempty"`
	Mutation     string    `json:"mutation,omitempty"`
	MutStart     int       `json:"mutStart" validate:"gte=0"`
	MutEnd       int       `json:"mutEnd" validate:"gtefield=MutStart"`
	Epitopes     []Epitope `json:"epitopes" validate:"dive"`
}

// Label returns the display label for the peptide: the description when set,
// otherwise the gene, otherwise the transcript id.
func (p Peptide) Label() string {
	switch {
	case p.Description != "":
		return p.Description
	case p.Gene != "":
		return p.Gene
	default:
		return p.TranscriptID
	}
}

// Validate checks the peptide and its epitopes against the data model invariants.
func (p *Peptide) Validate() error {
	return validateStruct(p)
}
