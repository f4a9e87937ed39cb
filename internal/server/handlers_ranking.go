package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/epitope-ranker/internal/metrics"
	"github.com/jonathan/epitope-ranker/internal/ranking"
	"github.com/jonathan/epitope-ranker/internal/threshold"
	"github.com/jonathan/epitope-ranker/internal/types"
)

// OverlappingResponse is returned by the overlapping endpoint
type OverlappingResponse struct {
	Position int             `json:"position"`
	Epitopes []types.Epitope `json:"epitopes"`
}

// handleRanked returns the collapsed overview: peptides by descending score
// with their highlighted epitopes.
func (s *Server) handleRanked(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := metrics.OperationRankPeptides

	ds, err := s.loadDataset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	t, err := s.requestThreshold(r.Context(), ds.ID, r.URL.Query())
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	minAlleles := s.minAlleles
	if raw := r.URL.Query().Get("min_alleles"); raw != "" {
		minAlleles, err = strconv.Atoi(raw)
		if err != nil || minAlleles < 1 {
			s.fail(w, op, start, &ErrValidation{Field: "min_alleles", Message: "must be a positive integer"})
			return
		}
	}

	ranked, err := ranking.RankDataset(ds.Peptides, t, minAlleles)
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	s.metrics.Observe(op, start, "")
	s.jsonResponse(w, http.StatusOK, ranked)
}

// handlePeptideEpitopes returns the expanded view of one peptide: every
// epitope by descending passing-allele count.
func (s *Server) handlePeptideEpitopes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := metrics.OperationRankEpitopes

	ds, err := s.loadDataset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, op, start, err)
		return
	}
	peptide, err := peptideAt(ds, r.PathValue("index"))
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	t, err := s.requestThreshold(r.Context(), ds.ID, r.URL.Query())
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	views, err := ranking.DescribeEpitopes(peptide, t)
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	s.metrics.Observe(op, start, "")
	s.jsonResponse(w, http.StatusOK, views)
}

// handleOverlapping returns the epitopes covering one residue, as the renderer
// needs when the pointer hovers a letter.
func (s *Server) handleOverlapping(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := metrics.OperationOverlapping

	ds, err := s.loadDataset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, op, start, err)
		return
	}
	peptide, err := peptideAt(ds, r.PathValue("index"))
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	position, err := strconv.Atoi(r.URL.Query().Get("position"))
	if err != nil {
		s.fail(w, op, start, &ErrValidation{Field: "position", Message: "must be an integer"})
		return
	}

	s.metrics.Observe(op, start, "")
	s.jsonResponse(w, http.StatusOK, OverlappingResponse{
		Position: position,
		Epitopes: ranking.EpitopesOverlapping(position, peptide.Epitopes),
	})
}

// thresholdState returns the dataset's stored slider state, or the server defaults.
func (s *Server) thresholdState(ctx context.Context, id uuid.UUID) (threshold.State, error) {
	stored, err := s.store.GetThresholdState(ctx, id)
	if err != nil {
		return threshold.State{}, err
	}
	if stored == nil {
		return s.defaults, nil
	}
	return *stored, nil
}

// requestThreshold resolves the threshold for a ranking request. The
// attribute and value query parameters override the stored state; the value
// is passed through unclamped.
func (s *Server) requestThreshold(ctx context.Context, id uuid.UUID, q url.Values) (types.Threshold, error) {
	state, err := s.thresholdState(ctx, id)
	if err != nil {
		return types.Threshold{}, err
	}

	if raw := q.Get("attribute"); raw != "" {
		attr, err := types.ParseAttribute(raw)
		if err != nil {
			return types.Threshold{}, err
		}
		if err := state.Select(attr); err != nil {
			return types.Threshold{}, err
		}
	}

	t := state.Current()
	if raw := q.Get("value"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.Threshold{}, &ErrValidation{Field: "value", Message: "must be a number"}
		}
		if threshold.CheckFinite(v) != nil {
			return types.Threshold{}, &ErrValidation{Field: "value", Message: "must be a finite number"}
		}
		t.Value = v
	}
	return t, nil
}
