package types

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so errors line up with the input file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(peptideStructLevel, Peptide{})
	return v
}

// peptideStructLevel enforces the invariants that tie epitopes to their parent sequence.
func peptideStructLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(Peptide)
	n := len(p.Sequence)

	if p.MutEnd > n {
		sl.ReportError(p.MutEnd, "mutEnd", "MutEnd", "lteseqlen", strconv.Itoa(n))
	}

	for i, e := range p.Epitopes {
		if e.End() > n {
			sl.ReportError(e.Length, fmt.Sprintf("epitopes[%d].length", i), "Length", "withinsequence", strconv.Itoa(n))
		}
		if e.Sequence != "" && len(e.Sequence) != e.Length {
			sl.ReportError(e.Sequence, fmt.Sprintf("epitopes[%d].sequence", i), "Sequence", "len", strconv.Itoa(e.Length))
		}
		reportScores(sl, i, e.Scores)
	}
}

// reportScores checks score values in allele order so errors are stable across runs.
func reportScores(sl validator.StructLevel, i int, scores map[string]Score) {
	alleles := make([]string, 0, len(scores))
	for allele := range scores {
		alleles = append(alleles, allele)
	}
	sort.Strings(alleles)

	for _, allele := range alleles {
		s := scores[allele]
		prefix := fmt.Sprintf("epitopes[%d].scores[%s].", i, allele)
		switch {
		case s.Percentile < 0:
			sl.ReportError(s.Percentile, prefix+"percentile", "Percentile", "gte", "0")
		case s.Percentile > 100:
			sl.ReportError(s.Percentile, prefix+"percentile", "Percentile", "lte", "100")
		}
		if s.BindingScore < 0 {
			sl.ReportError(s.BindingScore, prefix+"bindingScore", "BindingScore", "gte", "0")
		}
	}
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single failed rule on a single field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   trimRoot(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// trimRoot drops the leading struct name from a validator namespace ("Peptide.epitopes[0].start").
func trimRoot(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "gtefield":
		return "must be >= mutStart"
	case "lteseqlen":
		return "must not exceed sequence length " + fe.Param()
	case "withinsequence":
		return "epitope extends past sequence length " + fe.Param()
	case "len":
		return "length must equal " + fe.Param()
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
