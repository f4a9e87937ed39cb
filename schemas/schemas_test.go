package schemas_test

import (
	"encoding/json"
	"os"
	"testing"

	validation "github.com/jonathan/epitope-ranker/internal/schemas"
	"github.com/jonathan/epitope-ranker/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"peptides.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			_, hasSchema := schemaObj["$schema"]
			_, hasDefs := schemaObj["definitions"]
			assert.True(t, hasSchema, "schema should declare $schema")
			assert.True(t, hasDefs, "schema should carry definitions")
		})
	}
}

func TestEmbeddedPeptidesMatchesFile(t *testing.T) {
	data, err := os.ReadFile("peptides.schema.json")
	require.NoError(t, err)
	assert.Equal(t, data, schemas.Peptides)
}

func TestPeptidesSchema_AcceptsBothShapes(t *testing.T) {
	peptide := `{
		"sequence": "ASIINFKELA",
		"gene": "SMAD4",
		"mutStart": 3,
		"mutEnd": 4,
		"epitopes": [
			{"start": 1, "length": 8, "sequence": "SIINFKEL",
			 "scores": {"HLA-A*02:01": {"percentile": 0.1, "bindingScore": 0.9}}}
		]
	}`

	assert.NoError(t, validation.ValidateBytes(schemas.Peptides, []byte("["+peptide+"]")))
	assert.NoError(t, validation.ValidateBytes(schemas.Peptides, []byte(`{"name": "cohort", "peptides": [`+peptide+`]}`)))
}

func TestPeptidesSchema_RejectsMissingScoreField(t *testing.T) {
	doc := `[{
		"sequence": "ASIINFKELA",
		"mutStart": 3,
		"mutEnd": 4,
		"epitopes": [{"start": 1, "length": 8, "scores": {"HLA-A*02:01": {"percentile": 0.1}}}]
	}]`

	err := validation.ValidateBytes(schemas.Peptides, []byte(doc))
	require.Error(t, err)
	var verr *validation.ValidationError
	assert.ErrorAs(t, err, &verr)
}
