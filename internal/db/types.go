package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/epitope-ranker/internal/types"
)

// DatasetSummary is a dataset row without its peptides
type DatasetSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PeptideCount int       `json:"peptide_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Dataset is a stored dataset with its peptides decoded
type Dataset struct {
	DatasetSummary
	Peptides []types.Peptide `json:"peptides"`
}
