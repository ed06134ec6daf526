package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_JDSpans(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"requirements":[[0,5]],"responsibilities":[],"nice_to_haves":[[6,9],[1,2]]}`, false},
		{"missing key", `{"requirements":[],"responsibilities":[]}`, true},
		{"three element pair", `{"requirements":[[0,5,6]],"responsibilities":[],"nice_to_haves":[]}`, true},
		{"string offsets", `{"requirements":[["0","5"]],"responsibilities":[],"nice_to_haves":[]}`, true},
		{"fractional offsets", `{"requirements":[[0.5,5]],"responsibilities":[],"nice_to_haves":[]}`, true},
		{"not an object", `[[0,1]]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(JDSpans, tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				_, ok := err.(*ValidationError)
				assert.True(t, ok, "error should be ValidationError type")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_ParsedResume(t *testing.T) {
	doc := `{
		"sections": {"Projects": "built things"},
		"technicalSkills": [{"name": "Go", "source": "static", "locked": true, "score": 0}],
		"relevantCoursework": [{"name": "Algorithms", "score": 0}]
	}`
	assert.NoError(t, Validate(ParsedResume, doc))

	bad := `{"sections": {}, "technicalSkills": [{"name": "Go", "source": "mystery", "locked": false}], "relevantCoursework": []}`
	assert.Error(t, Validate(ParsedResume, bad))
}

func TestValidate_Selection(t *testing.T) {
	assert.NoError(t, Validate(Selection, `{"skills": [{"name": "Go"}], "coursework": [{"name": "Compilers", "score": 2.5}]}`))
	assert.NoError(t, Validate(Selection, `{}`))

	var ve *ValidationError
	assert.ErrorAs(t, Validate(Selection, `{"skills": [{"name": ""}]}`), &ve)
	assert.Error(t, Validate(Selection, `{"coursework": "Algorithms"}`))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", `{}`)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString_MalformedDocument(t *testing.T) {
	err := ValidateJSONString(`{"type":"object"}`, `{not json`)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "requirements.0", Message: "Array must have at most 2 items"}}}
	assert.Contains(t, err.Error(), "1. requirements.0: Array must have at most 2 items")
}
