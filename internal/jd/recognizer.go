package jd

import (
	"strings"
	"unicode"

	"github.com/jonathan/job-assistant/internal/textmatch"
)

// Entity labels the extractor accepts.
const (
	LabelOrganization = "ORG"
	LabelProduct      = "PRODUCT"
)

// Entity is a named span found by an EntityRecognizer.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer finds organization- and product-like names in text.
type EntityRecognizer interface {
	Entities(text string) []Entity
}

// capitalizedRun matches runs of capitalized tokens such as "Node.js", "C++",
// "AWS" or "Machine Learning".
var capitalizedRun = textmatch.MustCompile(
	`(?<![\w.+#])[A-Z][\w]*(?:[.+#][\w+#]*)*(?:[ \t]+[A-Z][\w]*(?:[.+#][\w+#]*)*)*`,
	textmatch.None,
)

// CapitalizedRecognizer is a dictionary-free recognizer: every run of
// capitalized tokens is a candidate, as is each token inside a multi-word run.
// All-caps tokens are labeled ORG, everything else PRODUCT.
type CapitalizedRecognizer struct{}

// Entities implements EntityRecognizer.
func (CapitalizedRecognizer) Entities(text string) []Entity {
	t := textmatch.NewText(text)
	var out []Entity
	for _, m := range capitalizedRun.FindAll(text) {
		whole, _ := m.Group(0)
		phrase := trimEntity(t.Slice(whole))
		if phrase == "" {
			continue
		}
		out = append(out, Entity{Text: phrase, Label: labelFor(phrase)})

		tokens := strings.Fields(phrase)
		if len(tokens) < 2 {
			continue
		}
		for _, tok := range tokens {
			if tok = trimEntity(tok); tok != "" {
				out = append(out, Entity{Text: tok, Label: labelFor(tok)})
			}
		}
	}
	return out
}

func trimEntity(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".,;:")
}

func labelFor(s string) string {
	for _, r := range s {
		if unicode.IsLower(r) {
			return LabelProduct
		}
	}
	return LabelOrganization
}
