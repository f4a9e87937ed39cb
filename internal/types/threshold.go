package types

import (
	"fmt"
	"strconv"
)

// Threshold is the user-controlled cutoff passed into every ranking call.
// A score passes when its Attribute value is <= Value.
type Threshold struct {
	Attribute Attribute `json:"attribute"`
	Value     float64   `json:"value"`
}

// Validate reports an InvalidAttributeError when the attribute is unrecognized.
// The value is not range-checked: out-of-range values pass or fail everything.
func (t Threshold) Validate() error {
	if !t.Attribute.Valid() {
		return &InvalidAttributeError{Attribute: string(t.Attribute)}
	}
	return nil
}

// String renders the threshold the way the slider label shows it,
// e.g. "2nd percentile" or "500 nM".
func (t Threshold) String() string {
	v := strconv.FormatFloat(t.Value, 'f', -1, 64)
	switch t.Attribute {
	case AttributePercentile:
		if t.Value == float64(int(t.Value)) {
			return fmt.Sprintf("%s%s percentile", v, OrdinalSuffix(int(t.Value)))
		}
		return v + " percentile"
	case AttributeBindingScore:
		return v + " nM"
	default:
		return fmt.Sprintf("%s %s", v, t.Attribute)
	}
}

// OrdinalSuffix returns the English ordinal suffix for n ("st", "nd", "rd", "th").
func OrdinalSuffix(n int) string {
	if n < 0 {
		n = -n
	}
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
