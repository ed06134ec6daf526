package jd

import (
	"strings"

	"github.com/jonathan/job-assistant/internal/taxonomy"
	"github.com/jonathan/job-assistant/internal/textmatch"
	"github.com/jonathan/job-assistant/internal/types"
)

// Extractor finds taxonomy skills inside labeled spans.
type Extractor struct {
	taxonomy   *taxonomy.Taxonomy
	keys       []string
	recognizer EntityRecognizer
}

// NewExtractor creates an extractor. A nil taxonomy uses taxonomy.Default and a
// nil recognizer uses CapitalizedRecognizer.
func NewExtractor(tax *taxonomy.Taxonomy, recognizer EntityRecognizer) *Extractor {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if recognizer == nil {
		recognizer = CapitalizedRecognizer{}
	}
	return &Extractor{
		taxonomy:   tax,
		keys:       tax.Keys(),
		recognizer: recognizer,
	}
}

// Extract returns one Skill per canonical name seen in any span. Spans are
// visited requirement, responsibility, nice_to_have. A skill keeps the strongest
// source it was seen under; sources never downgrade. Output is in order of
// first sighting with Locked false and no score.
func (e *Extractor) Extract(text string, spans types.JDSpan) []types.Skill {
	t := textmatch.NewText(text)
	skills := []types.Skill{}
	index := make(map[string]int)

	sight := func(name string, source types.SkillSource) {
		if i, ok := index[name]; ok {
			if source.Rank() > skills[i].Source.Rank() {
				skills[i].Source = source
			}
			return
		}
		index[name] = len(skills)
		skills = append(skills, types.Skill{Name: name, Source: source})
	}

	for _, source := range types.JDSources {
		for _, span := range spans.For(source) {
			section := t.Slice(textmatch.Range{Start: span.Start(), End: span.End()})
			if section == "" {
				continue
			}

			for _, ent := range e.recognizer.Entities(section) {
				if ent.Label != LabelOrganization && ent.Label != LabelProduct {
					continue
				}
				if name, ok := e.taxonomy.Canonical(ent.Text); ok {
					sight(name, source)
				}
			}

			lower := strings.ToLower(section)
			for _, key := range e.keys {
				if !strings.Contains(lower, key) {
					continue
				}
				if name, ok := e.taxonomy.Canonical(key); ok {
					sight(name, source)
				}
			}
		}
	}

	return skills
}
