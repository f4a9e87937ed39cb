package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/epitope-ranker/internal/types"
)

// -----------------------------------------------------------------------------
// Dataset Methods
// -----------------------------------------------------------------------------

// CreateDataset stores peptides under a new dataset ID
func (db *DB) CreateDataset(ctx context.Context, name string, peptides []types.Peptide) (uuid.UUID, error) {
	if peptides == nil {
		peptides = []types.Peptide{}
	}
	peptidesJSON, err := json.Marshal(peptides)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal peptides: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO datasets (name, peptide_count, peptides)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, len(peptides), peptidesJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create dataset: %w", err)
	}
	return id, nil
}

// GetDataset retrieves a dataset by ID. Returns nil if it does not exist.
func (db *DB) GetDataset(ctx context.Context, id uuid.UUID) (*Dataset, error) {
	var ds Dataset
	var peptidesJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, name, peptide_count, peptides, created_at
		 FROM datasets WHERE id = $1`,
		id,
	).Scan(&ds.ID, &ds.Name, &ds.PeptideCount, &peptidesJSON, &ds.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	if err := json.Unmarshal(peptidesJSON, &ds.Peptides); err != nil {
		return nil, fmt.Errorf("failed to unmarshal peptides for dataset %s: %w", id, err)
	}
	return &ds, nil
}

// ListDatasets returns all datasets, newest first, without their peptides
func (db *DB) ListDatasets(ctx context.Context) ([]DatasetSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, peptide_count, created_at
		 FROM datasets
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	summaries := []DatasetSummary{}
	for rows.Next() {
		var s DatasetSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.PeptideCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return summaries, nil
}

// DeleteDataset removes a dataset and its threshold state.
// Reports whether a row was deleted.
func (db *DB) DeleteDataset(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, "DELETE FROM datasets WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete dataset: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
