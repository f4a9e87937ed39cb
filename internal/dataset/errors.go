// Package dataset loads peptide datasets from JSON files.
package dataset

import "fmt"

// LoadError represents an error during file I/O or JSON parsing
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	prefix := "load error"
	if e.Path != "" {
		prefix = fmt.Sprintf("load error (%s)", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// PeptideError wraps a validation failure with the index of the offending peptide.
type PeptideError struct {
	Index int
	Cause error
}

func (e *PeptideError) Error() string {
	return fmt.Sprintf("peptide %d: %v", e.Index, e.Cause)
}

func (e *PeptideError) Unwrap() error {
	return e.Cause
}
