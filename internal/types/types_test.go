package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillSource_Rank(t *testing.T) {
	tests := []struct {
		source SkillSource
		rank   int
		base   float64
	}{
		{SourceRequirement, 3, 3},
		{SourceResponsibility, 2, 2},
		{SourceNiceToHave, 1, 1},
		{SourceStatic, 0, 0},
		{SkillSource("bogus"), -1, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.source.Rank())
			assert.Equal(t, tt.base, tt.source.BaseScore())
		})
	}
}

func TestJDSpan_JSONShape(t *testing.T) {
	spans := NewJDSpan()
	spans.Add(SourceRequirement, Span{0, 10})
	spans.Add(SourceNiceToHave, Span{12, 20})
	spans.Add(SourceStatic, Span{1, 2})

	data, err := json.Marshal(spans)
	require.NoError(t, err)
	assert.JSONEq(t, `{"requirements":[[0,10]],"responsibilities":[],"nice_to_haves":[[12,20]]}`, string(data))

	var decoded JDSpan
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 10, decoded.Requirements[0].End())
	assert.Len(t, decoded.All(), 2)
	assert.False(t, decoded.Empty())
}

func TestSkill_ScoreOmittedWhenUnset(t *testing.T) {
	data, err := json.Marshal(Skill{Name: "Go", Source: SourceStatic})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "score")

	data, err = json.Marshal(Skill{Name: "Go", Source: SourceStatic, Score: Float(0)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"score":0`)
}

func TestParsedResume_FieldNames(t *testing.T) {
	data, err := json.Marshal(NewParsedResume())
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":{},"technicalSkills":[],"relevantCoursework":[]}`, string(data))
}

func TestUpdateJobRequest_Validate(t *testing.T) {
	valid := "Interview"
	invalid := "Ghosted"
	spaced := "Not Applied"

	assert.NoError(t, (&UpdateJobRequest{}).Validate())
	assert.NoError(t, (&UpdateJobRequest{Status: &valid}).Validate())
	assert.NoError(t, (&UpdateJobRequest{Status: &spaced}).Validate())
	assert.Error(t, (&UpdateJobRequest{Status: &invalid}).Validate())
}

func TestUpdateResumeVariantRequest_Validate(t *testing.T) {
	req := &UpdateResumeVariantRequest{
		JobID:  uuid.New(),
		Skills: []Skill{{Name: "Go"}},
	}
	assert.NoError(t, req.Validate())

	req.Skills = append(req.Skills, Skill{Name: ""})
	assert.Error(t, req.Validate())

	assert.Error(t, (&UpdateResumeVariantRequest{}).Validate())
}

func TestCreateJobRequest_Validate(t *testing.T) {
	badURL := "not a url"
	req := &CreateJobRequest{Title: "SWE", Company: "Acme", JDRaw: "text"}
	assert.NoError(t, req.Validate())

	req.SourceURL = &badURL
	assert.Error(t, req.Validate())

	assert.Error(t, (&CreateJobRequest{Title: "SWE"}).Validate())
}
