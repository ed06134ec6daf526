package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Canonical(t *testing.T) {
	tax := Default()

	tests := []struct {
		surface string
		want    string
	}{
		{"python", "Python"},
		{"PYTHON", "Python"},
		{"  Python ", "Python"},
		{"vue", "Vue.js"},
		{"vue.js", "Vue.js"},
		{"gcp", "Google Cloud"},
		{"google cloud", "Google Cloud"},
		{"rails", "Ruby on Rails"},
		{"C++", "C++"},
		{"c#", "C#"},
		{"Machine Learning", "Machine Learning"},
	}

	for _, tt := range tests {
		t.Run(tt.surface, func(t *testing.T) {
			got, ok := tax.Canonical(tt.surface)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := tax.Canonical("cobol")
	assert.False(t, ok)
}

func TestDefault_KeysOrder(t *testing.T) {
	keys := Default().Keys()
	require.NotEmpty(t, keys)
	assert.Equal(t, "python", keys[0])
	assert.Contains(t, keys, "ruby on rails")
	assert.Contains(t, keys, "google cloud")

	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestDefault_KeysIsCopy(t *testing.T) {
	keys := Default().Keys()
	keys[0] = "mutated"
	assert.Equal(t, "python", Default().Keys()[0])
}

func TestDefault_ProjectKeywords(t *testing.T) {
	kws := Default().ProjectKeywords()
	assert.Len(t, kws, 25)
	assert.Contains(t, kws, "CI/CD")
	assert.Contains(t, kws, "scikit-learn")
}

func TestParse(t *testing.T) {
	doc := []byte(`
skills:
  infra:
    k8s: Kubernetes
    tf: Terraform
project_keywords: [Terraform, " "]
`)
	tax, err := Parse(doc)
	require.NoError(t, err)

	name, ok := tax.Canonical("K8S")
	require.True(t, ok)
	assert.Equal(t, "Kubernetes", name)
	assert.Equal(t, []string{"k8s", "tf", "kubernetes", "terraform"}, tax.Keys())
	assert.Equal(t, []string{"Terraform"}, tax.ProjectKeywords())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "skills: [unclosed"},
		{"skills not mapping", "skills: [a, b]"},
		{"category not mapping", "skills:\n  infra: [a]"},
		{"empty canonical", "skills:\n  infra:\n    k8s: \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
