package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/epitope-ranker/internal/threshold"
	"github.com/jonathan/epitope-ranker/internal/types"
)

// -----------------------------------------------------------------------------
// Threshold State Methods
// -----------------------------------------------------------------------------

// SaveThresholdState upserts the slider state for a dataset
func (db *DB) SaveThresholdState(ctx context.Context, datasetID uuid.UUID, state threshold.State) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid threshold state: %w", err)
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO threshold_states (dataset_id, attribute, percentile, binding_score, variant)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (dataset_id) DO UPDATE
		 SET attribute = $2, percentile = $3, binding_score = $4, variant = $5, updated_at = NOW()`,
		datasetID, string(state.Attribute), state.Percentile, state.BindingScore, string(state.Variant),
	)
	if err != nil {
		return fmt.Errorf("failed to save threshold state: %w", err)
	}
	return nil
}

// GetThresholdState retrieves the slider state for a dataset. Returns nil if none was saved.
func (db *DB) GetThresholdState(ctx context.Context, datasetID uuid.UUID) (*threshold.State, error) {
	var attribute, variant string
	var state threshold.State

	err := db.pool.QueryRow(ctx,
		`SELECT attribute, percentile, binding_score, variant
		 FROM threshold_states WHERE dataset_id = $1`,
		datasetID,
	).Scan(&attribute, &state.Percentile, &state.BindingScore, &variant)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get threshold state: %w", err)
	}

	state.Attribute = types.Attribute(attribute)
	state.Variant = threshold.Variant(variant)
	return &state, nil
}
