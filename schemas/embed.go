// Package schemas holds the JSON Schema documents for the data files the tool reads.
package schemas

import _ "embed"

// Peptides is the schema for peptide dataset files.
//
//go:embed peptides.schema.json
var Peptides []byte
