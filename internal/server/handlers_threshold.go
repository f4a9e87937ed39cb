package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jonathan/epitope-ranker/internal/metrics"
	"github.com/jonathan/epitope-ranker/internal/threshold"
	"github.com/jonathan/epitope-ranker/internal/types"
)

// ThresholdRequest is the body of PUT /datasets/{id}/threshold. Every field is
// optional: sending only an attribute switches the slider and restores that
// attribute's last value.
type ThresholdRequest struct {
	Attribute string   `json:"attribute,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Variant   string   `json:"variant,omitempty"`
}

// ThresholdResponse describes the slider: stored state, active range and label.
type ThresholdResponse struct {
	threshold.State
	Bounds    threshold.Bounds `json:"bounds"`
	Threshold types.Threshold  `json:"threshold"`
	Label     string           `json:"label"`
}

func newThresholdResponse(state threshold.State) (ThresholdResponse, error) {
	bounds, err := state.Bounds()
	if err != nil {
		return ThresholdResponse{}, err
	}
	current := state.Current()
	return ThresholdResponse{
		State:     state,
		Bounds:    bounds,
		Threshold: current,
		Label:     current.String(),
	}, nil
}

// handleGetThreshold returns the dataset's slider state
func (s *Server) handleGetThreshold(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadDataset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, "", time.Now(), err)
		return
	}

	state, err := s.thresholdState(r.Context(), ds.ID)
	if err != nil {
		s.fail(w, "", time.Now(), err)
		return
	}

	resp, err := newThresholdResponse(state)
	if err != nil {
		s.fail(w, "", time.Now(), err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePutThreshold applies a slider change and stores the result. Values
// outside the active range are clamped.
func (s *Server) handlePutThreshold(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := metrics.OperationSetThreshold

	var req ThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, op, start, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}

	ds, err := s.loadDataset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	state, err := s.thresholdState(r.Context(), ds.ID)
	if err != nil {
		s.fail(w, op, start, err)
		return
	}

	if req.Variant != "" {
		variant, err := threshold.ParseVariant(req.Variant)
		if err != nil {
			s.fail(w, op, start, &ErrValidation{Field: "variant", Message: err.Error()})
			return
		}
		state.Variant = variant
		percentileBounds, _ := threshold.BoundsFor(types.AttributePercentile, variant)
		state.Percentile = percentileBounds.Clamp(state.Percentile)
	}
	if req.Attribute != "" {
		attr, err := types.ParseAttribute(req.Attribute)
		if err != nil {
			s.fail(w, op, start, err)
			return
		}
		if err := state.Select(attr); err != nil {
			s.fail(w, op, start, err)
			return
		}
	}
	if req.Value != nil {
		if _, err := state.Set(*req.Value); err != nil {
			s.fail(w, op, start, err)
			return
		}
	}

	if err := s.store.SaveThresholdState(r.Context(), ds.ID, state); err != nil {
		s.fail(w, op, start, err)
		return
	}

	resp, err := newThresholdResponse(state)
	if err != nil {
		s.fail(w, op, start, err)
		return
	}
	s.metrics.Observe(op, start, "")
	s.jsonResponse(w, http.StatusOK, resp)
}
