package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/epitope-ranker/internal/dataset"
	"github.com/jonathan/epitope-ranker/internal/db"
	"github.com/jonathan/epitope-ranker/internal/metrics"
	"github.com/jonathan/epitope-ranker/internal/types"
)

// maxDatasetBytes caps POST /datasets bodies.
const maxDatasetBytes = 64 << 20

// defaultDatasetName is used when neither the body nor the query names the dataset.
const defaultDatasetName = "untitled"

// CreateDatasetResponse is returned by POST /datasets
type CreateDatasetResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Format       string `json:"format"`
	PeptideCount int    `json:"peptide_count"`
}

// handleCreateDataset validates and stores a dataset. The body may be a bare
// peptide array, {"name": ..., "peptides": [...]}, or grouped pipeline output.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := metrics.OperationImportDataset

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDatasetBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.Observe(op, start, metrics.ErrorTypeValidation)
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.fail(w, op, start, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	ds, err := dataset.Parse(body, dataset.Options{SchemaPath: s.schemaPath})
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	name := ds.Name
	if name == "" {
		name = r.URL.Query().Get("name")
	}
	if name == "" {
		name = defaultDatasetName
	}

	id, err := s.store.CreateDataset(r.Context(), name, ds.Peptides)
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	s.metrics.Observe(op, start, "")
	s.jsonResponse(w, http.StatusCreated, CreateDatasetResponse{
		ID:           id.String(),
		Name:         name,
		Format:       string(ds.Format),
		PeptideCount: len(ds.Peptides),
	})
}

// handleListDatasets lists stored datasets without their peptides
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListDatasets(r.Context())
	if err != nil {
		s.fail(w, "", time.Now(), err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summaries)
}

// handleGetDataset returns a dataset with its peptides in stored order
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadDataset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, "", time.Now(), err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ds)
}

// handleDeleteDataset removes a dataset and its threshold state
func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, err := parseDatasetID(r.PathValue("id"))
	if err != nil {
		s.fail(w, "", time.Now(), err)
		return
	}

	deleted, err := s.store.DeleteDataset(r.Context(), id)
	if err != nil {
		s.fail(w, "", time.Now(), err)
		return
	}
	if !deleted {
		s.fail(w, "", time.Now(), &ErrDatasetNotFound{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadDataset parses the path ID and fetches the dataset.
func (s *Server) loadDataset(ctx context.Context, rawID string) (*db.Dataset, error) {
	id, err := parseDatasetID(rawID)
	if err != nil {
		return nil, err
	}

	ds, err := s.store.GetDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, &ErrDatasetNotFound{ID: id}
	}
	return ds, nil
}

// peptideAt returns the peptide at the raw path index.
func peptideAt(ds *db.Dataset, rawIndex string) (types.Peptide, error) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return types.Peptide{}, &ErrValidation{Field: "index", Message: "must be an integer"}
	}
	if index < 0 || index >= len(ds.Peptides) {
		return types.Peptide{}, &ErrPeptideNotFound{Index: index, Count: len(ds.Peptides)}
	}
	return ds.Peptides[index], nil
}

func parseDatasetID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// fail records the failure under op (when set) and writes the error response.
// Internal errors are logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, op string, start time.Time, err error) {
	if op != "" {
		s.metrics.Observe(op, start, errorType(err))
	}

	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
