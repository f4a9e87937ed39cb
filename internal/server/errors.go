package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/epitope-ranker/internal/dataset"
	"github.com/jonathan/epitope-ranker/internal/metrics"
	"github.com/jonathan/epitope-ranker/internal/schemas"
	"github.com/jonathan/epitope-ranker/internal/threshold"
	"github.com/jonathan/epitope-ranker/internal/types"
)

// ErrDatasetNotFound indicates no dataset exists with the given ID
type ErrDatasetNotFound struct {
	ID uuid.UUID
}

func (e *ErrDatasetNotFound) Error() string {
	return fmt.Sprintf("dataset not found: %s", e.ID)
}

// ErrPeptideNotFound indicates a peptide index outside the dataset
type ErrPeptideNotFound struct {
	Index int
	Count int
}

func (e *ErrPeptideNotFound) Error() string {
	return fmt.Sprintf("peptide index %d out of range: dataset has %d peptides", e.Index, e.Count)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch errorType(err) {
	case metrics.ErrorTypeNotFound:
		return http.StatusNotFound
	case metrics.ErrorTypeInvalidAttribute, metrics.ErrorTypeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorType classifies err for the errors metric.
func errorType(err error) string {
	var (
		datasetNotFound *ErrDatasetNotFound
		peptideNotFound *ErrPeptideNotFound
		requestErr      *ErrValidation
		fieldErr        *types.ValidationError
		schemaErr       *schemas.ValidationError
		loadErr         *dataset.LoadError
		peptideErr      *dataset.PeptideError
	)

	switch {
	case errors.Is(err, types.ErrInvalidAttribute):
		return metrics.ErrorTypeInvalidAttribute
	case errors.As(err, &datasetNotFound), errors.As(err, &peptideNotFound):
		return metrics.ErrorTypeNotFound
	case errors.Is(err, threshold.ErrNotFinite),
		errors.As(err, &requestErr),
		errors.As(err, &fieldErr),
		errors.As(err, &schemaErr),
		errors.As(err, &loadErr),
		errors.As(err, &peptideErr):
		return metrics.ErrorTypeValidation
	default:
		return metrics.ErrorTypeInternal
	}
}
