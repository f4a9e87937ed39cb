// Package threshold holds the slider state owned by the rendering layer: which
// attribute is active and the last value chosen for each attribute.
// The ranking package never reads it; callers pass State.Current() into each call.
package threshold

import (
	"errors"
	"fmt"
	"math"

	"github.com/jonathan/epitope-ranker/internal/types"
)

// Variant selects the percentile slider range.
type Variant string

const (
	// VariantOverview uses the full 1-99 percentile range.
	VariantOverview Variant = "overview"
	// VariantDetail uses the narrower 1-50 percentile range.
	VariantDetail Variant = "detail"
)

// Defaults applied at startup.
const (
	DefaultAttribute    = types.AttributeBindingScore
	DefaultPercentile   = 2.0
	DefaultBindingScore = 500.0
	DefaultVariant      = VariantDetail
)

// Bounds is an inclusive slider range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp pins v into [b.Min, b.Max].
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// ErrNotFinite is returned for NaN and infinite threshold values.
var ErrNotFinite = errors.New("threshold value must be a finite number")

// CheckFinite rejects NaN and infinities, which compare false against every
// score and cannot be encoded as JSON.
func CheckFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w, got %v", ErrNotFinite, v)
	}
	return nil
}

var (
	bindingScoreBounds = Bounds{Min: 1, Max: 2500}
	overviewBounds     = Bounds{Min: 1, Max: 99}
	detailBounds       = Bounds{Min: 1, Max: 50}
)

// ParseVariant parses "overview" or "detail"; empty selects DefaultVariant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "":
		return DefaultVariant, nil
	case VariantOverview, VariantDetail:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("invalid percentile variant %q: must be %q or %q", s, VariantOverview, VariantDetail)
	}
}

// BoundsFor returns the slider range for attr under variant.
func BoundsFor(attr types.Attribute, variant Variant) (Bounds, error) {
	switch attr {
	case types.AttributeBindingScore:
		return bindingScoreBounds, nil
	case types.AttributePercentile:
		if variant == VariantOverview {
			return overviewBounds, nil
		}
		return detailBounds, nil
	default:
		return Bounds{}, &types.InvalidAttributeError{Attribute: string(attr)}
	}
}

// Clamp returns t with its value pinned into the slider range for its attribute.
func Clamp(t types.Threshold, variant Variant) (types.Threshold, error) {
	b, err := BoundsFor(t.Attribute, variant)
	if err != nil {
		return types.Threshold{}, err
	}
	t.Value = b.Clamp(t.Value)
	return t, nil
}

// State remembers a value per attribute so switching attributes restores the
// previous setting for that attribute.
type State struct {
	Attribute    types.Attribute `json:"attribute"`
	Percentile   float64         `json:"percentile"`
	BindingScore float64         `json:"bindingScore"`
	Variant      Variant         `json:"variant"`
}

// NewState returns the startup state.
func NewState() State {
	return State{
		Attribute:    DefaultAttribute,
		Percentile:   DefaultPercentile,
		BindingScore: DefaultBindingScore,
		Variant:      DefaultVariant,
	}
}

// Select switches the active attribute.
func (s *State) Select(attr types.Attribute) error {
	if !attr.Valid() {
		return &types.InvalidAttributeError{Attribute: string(attr)}
	}
	s.Attribute = attr
	return nil
}

// Set stores v for the active attribute, clamped to its range, and returns the stored value.
func (s *State) Set(v float64) (float64, error) {
	if err := CheckFinite(v); err != nil {
		return 0, err
	}
	b, err := s.Bounds()
	if err != nil {
		return 0, err
	}
	v = b.Clamp(v)
	if s.Attribute == types.AttributePercentile {
		s.Percentile = v
	} else {
		s.BindingScore = v
	}
	return v, nil
}

// Bounds returns the slider range of the active attribute.
func (s State) Bounds() (Bounds, error) {
	return BoundsFor(s.Attribute, s.Variant)
}

// Current returns the threshold for the active attribute.
func (s State) Current() types.Threshold {
	v := s.BindingScore
	if s.Attribute == types.AttributePercentile {
		v = s.Percentile
	}
	return types.Threshold{Attribute: s.Attribute, Value: v}
}

// Validate checks the attribute and variant.
func (s State) Validate() error {
	if !s.Attribute.Valid() {
		return &types.InvalidAttributeError{Attribute: string(s.Attribute)}
	}
	if _, err := ParseVariant(string(s.Variant)); err != nil {
		return err
	}
	return nil
}
