// Package types provides type definitions for structured data used throughout the epitope-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Attribute names the score field a threshold is interpreted against.
type Attribute string

const (
	// AttributePercentile compares against Score.Percentile (lower = stronger binder).
	AttributePercentile Attribute = "percentile"
	// AttributeBindingScore compares against Score.BindingScore, an IC50 in nM (lower = stronger binder).
	AttributeBindingScore Attribute = "bindingScore"
)

// ErrInvalidAttribute is matched by every InvalidAttributeError via errors.Is.
var ErrInvalidAttribute = errors.New("invalid attribute")

// InvalidAttributeError reports an attribute outside {percentile, bindingScore}.
type InvalidAttributeError struct {
	Attribute string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid attribute %q: must be %q or %q", e.Attribute, AttributePercentile, AttributeBindingScore)
}

// Is makes errors.Is(err, ErrInvalidAttribute) succeed.
func (e *InvalidAttributeError) Is(target error) bool {
	return target == ErrInvalidAttribute
}

// Valid reports whether a is one of the two recognized attributes.
func (a Attribute) Valid() bool {
	return a == AttributePercentile || a == AttributeBindingScore
}

// String returns the attribute name.
func (a Attribute) String() string {
	return string(a)
}

// ParseAttribute parses an attribute name. Besides the canonical names it
// accepts "ic50" and "binding_score" for binding score, case-insensitively.
func ParseAttribute(s string) (Attribute, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percentile":
		return AttributePercentile, nil
	case "bindingscore", "binding_score", "ic50":
		return AttributeBindingScore, nil
	default:
		return "", &InvalidAttributeError{Attribute: s}
	}
}
