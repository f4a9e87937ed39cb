package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nameSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", nameSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "test"}`)

	assert.NoError(t, ValidateJSON(schemaPath, jsonPath))
}

func TestValidateJSON_MissingField(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", nameSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"age": 30}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", nameSchema)

	err := ValidateJSON(filepath.Join(dir, "missing_schema.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	err := ValidateBytes([]byte(nameSchema), []byte("{ invalid json }"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidatePeptides_EmbeddedSchema(t *testing.T) {
	doc := `[{"sequence": "ASIINFKELA", "mutStart": 3, "mutEnd": 4, "epitopes": []}]`
	assert.NoError(t, ValidatePeptides("", []byte(doc)))

	bad := `[{"sequence": "ASIINFKELA", "mutStart": -1, "mutEnd": 4, "epitopes": []}]`
	err := ValidatePeptides("", []byte(bad))
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}

func TestValidatePeptides_SchemaPathOverride(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", `{"type": "array", "maxItems": 0}`)

	assert.NoError(t, ValidatePeptides(schemaPath, []byte(`[]`)))
	assert.Error(t, ValidatePeptides(schemaPath, []byte(`[1]`)))

	err := ValidatePeptides(filepath.Join(dir, "nope.json"), []byte(`[]`))
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "0.mutStart", Message: "Must be greater than or equal to 0"},
			{Field: "0.sequence", Message: "is required"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "0.mutStart")
	assert.Contains(t, errorMsg, "0.sequence")
}

func TestResolveSchemaPath(t *testing.T) {
	assert.Equal(t, "", ResolveSchemaPath("schemas/does-not-exist.schema.json"))
	assert.NotEmpty(t, ResolveSchemaPath("schemas/peptides.schema.json"))
}
