// Package taxonomy provides the skill alias table and project keyword list.
// Both are loaded once from an embedded YAML document and are read-only afterwards,
// so a *Taxonomy is safe for concurrent use.
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultDocument []byte

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Taxonomy maps lowercase skill aliases to canonical skill names.
type Taxonomy struct {
	lookup          map[string]string
	keys            []string
	projectKeywords []string
}

type document struct {
	Skills          yaml.Node `yaml:"skills"`
	ProjectKeywords []string  `yaml:"project_keywords"`
}

// Default returns the built-in taxonomy. It panics if the embedded document is invalid.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Parse(defaultDocument)
		if err != nil {
			panic(fmt.Sprintf("failed to load embedded taxonomy: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// Parse builds a Taxonomy from a YAML document. Alias order in the document is kept:
// aliases come first, then any canonical name not already present as an alias.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	t := &Taxonomy{lookup: make(map[string]string)}

	if doc.Skills.Kind != 0 && doc.Skills.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("taxonomy skills must be a mapping of categories")
	}

	var canonicals []string
	for i := 0; i+1 < len(doc.Skills.Content); i += 2 {
		category := doc.Skills.Content[i].Value
		entries := doc.Skills.Content[i+1]
		if entries.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("taxonomy category %q must be a mapping", category)
		}
		for j := 0; j+1 < len(entries.Content); j += 2 {
			alias := strings.ToLower(strings.TrimSpace(entries.Content[j].Value))
			canonical := strings.TrimSpace(entries.Content[j+1].Value)
			if alias == "" || canonical == "" {
				return nil, fmt.Errorf("taxonomy category %q has an empty entry", category)
			}
			t.add(alias, canonical)
			canonicals = append(canonicals, canonical)
		}
	}
	for _, canonical := range canonicals {
		t.add(strings.ToLower(canonical), canonical)
	}

	for _, kw := range doc.ProjectKeywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			t.projectKeywords = append(t.projectKeywords, kw)
		}
	}

	return t, nil
}

func (t *Taxonomy) add(key, canonical string) {
	if _, exists := t.lookup[key]; exists {
		return
	}
	t.lookup[key] = canonical
	t.keys = append(t.keys, key)
}

// Canonical resolves a surface form to its canonical skill name, ignoring case
// and surrounding whitespace.
func (t *Taxonomy) Canonical(surface string) (string, bool) {
	name, ok := t.lookup[strings.ToLower(strings.TrimSpace(surface))]
	return name, ok
}

// Keys returns every lowercase lookup key in document order.
func (t *Taxonomy) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// ProjectKeywords returns the technologies that lock a resume skill when a
// project mentions them.
func (t *Taxonomy) ProjectKeywords() []string {
	out := make([]string, len(t.projectKeywords))
	copy(out, t.projectKeywords)
	return out
}
