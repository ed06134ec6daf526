// Package jd turns job description text into labeled spans, skills and coursework.
package jd

import (
	"context"
	"sort"

	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/textmatch"
	"github.com/jonathan/job-assistant/internal/types"
)

// CoverageThreshold is the rule coverage below which the oracle is consulted.
const CoverageThreshold = 0.7

// Rule is a named pattern whose first capture group is a span for Source.
type Rule struct {
	Name    string
	Source  types.SkillSource
	Pattern *textmatch.Pattern
}

// DefaultRules are applied in order; every match of every rule contributes a span.
var DefaultRules = []Rule{
	{
		Name:    "requirements-heading",
		Source:  types.SourceRequirement,
		Pattern: textmatch.MustCompile(`(?:requirements?|qualifications?|must have|required)[:.]?\s*\n?(.*?)(?=\n\n|\n(?:responsibilities|preferred|nice to have)|$)`, textmatch.IgnoreCaseDotAll),
	},
	{
		Name:    "requirements-phrase",
		Source:  types.SourceRequirement,
		Pattern: textmatch.MustCompile(`(?:we are looking for|you must have|you should have)[:.]?\s*\n?(.*?)(?=\n\n|\n(?:responsibilities|preferred|nice to have)|$)`, textmatch.IgnoreCaseDotAll),
	},
	{
		Name:    "responsibilities-heading",
		Source:  types.SourceResponsibility,
		Pattern: textmatch.MustCompile(`(?:responsibilities?|what you'll do|key responsibilities?)[:.]?\s*\n?(.*?)(?=\n\n|\n(?:requirements?|preferred|nice to have|qualifications?)|$)`, textmatch.IgnoreCaseDotAll),
	},
	{
		Name:    "responsibilities-phrase",
		Source:  types.SourceResponsibility,
		Pattern: textmatch.MustCompile(`(?:you will|you'll|duties)[:.]?\s*\n?(.*?)(?=\n\n|\n(?:requirements?|preferred|nice to have|qualifications?)|$)`, textmatch.IgnoreCaseDotAll),
	},
	{
		Name:    "nice-to-have-heading",
		Source:  types.SourceNiceToHave,
		Pattern: textmatch.MustCompile(`(?:nice to have|preferred|bonus|plus)[:.]?\s*\n?(.*?)(?=\n\n|$)`, textmatch.IgnoreCaseDotAll),
	},
	{
		Name:    "nice-to-have-phrase",
		Source:  types.SourceNiceToHave,
		Pattern: textmatch.MustCompile(`(?:would be great|it's a plus|helpful if)[:.]?\s*\n?(.*?)(?=\n\n|$)`, textmatch.IgnoreCaseDotAll),
	},
}

// SpanOracle segments text when the rules cover too little of it.
type SpanOracle interface {
	Spans(ctx context.Context, text string) (types.JDSpan, error)
}

// OracleFunc adapts a function to SpanOracle.
type OracleFunc func(ctx context.Context, text string) (types.JDSpan, error)

// Spans calls f.
func (f OracleFunc) Spans(ctx context.Context, text string) (types.JDSpan, error) {
	return f(ctx, text)
}

// Segmenter labels regions of a job description.
type Segmenter struct {
	Rules     []Rule
	Threshold float64

	oracle SpanOracle
	logger *logging.Logger
}

// NewSegmenter creates a segmenter using DefaultRules. oracle may be nil,
// in which case the rule result is always returned.
func NewSegmenter(oracle SpanOracle, logger *logging.Logger) *Segmenter {
	return &Segmenter{
		Rules:     DefaultRules,
		Threshold: CoverageThreshold,
		oracle:    oracle,
		logger:    logging.OrNop(logger),
	}
}

// Segment returns the labeled spans of text. Rule results are used when they
// cover at least Threshold of the text; otherwise the oracle is asked, and any
// oracle failure falls back to the rule result. Empty text never reaches the oracle.
func (s *Segmenter) Segment(ctx context.Context, text string) types.JDSpan {
	if text == "" {
		return types.NewJDSpan()
	}

	length := textmatch.NewText(text).Len()
	spans := s.SegmentRules(text)
	coverage := Coverage(spans, length)
	s.logger.Debug("rule segmentation", "coverage", coverage, "length", length)

	if coverage >= s.Threshold || s.oracle == nil {
		return spans
	}

	oracleSpans, err := s.oracle.Spans(ctx, text)
	if err != nil {
		s.logger.Warn("span oracle failed, using rule spans", "error", err, "coverage", coverage)
		return spans
	}

	return Clamp(oracleSpans, length)
}

// SegmentRules applies the rules only.
func (s *Segmenter) SegmentRules(text string) types.JDSpan {
	spans := types.NewJDSpan()
	for _, rule := range s.Rules {
		for _, m := range rule.Pattern.FindAll(text) {
			g, ok := m.Group(1)
			if !ok {
				continue
			}
			spans.Add(rule.Source, types.Span{g.Start, g.End})
		}
	}
	return spans
}

// Coverage returns the fraction of positions in [0, length) inside at least one span.
// It is 0 when length is 0.
func Coverage(spans types.JDSpan, length int) float64 {
	if length <= 0 {
		return 0
	}

	all := spans.All()
	ranges := make([]textmatch.Range, 0, len(all))
	for _, sp := range all {
		start := min(max(sp.Start(), 0), length)
		end := min(max(sp.End(), 0), length)
		if end > start {
			ranges = append(ranges, textmatch.Range{Start: start, End: end})
		}
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })

	covered := 0
	cursor := 0
	for _, r := range ranges {
		if r.End <= cursor {
			continue
		}
		covered += r.End - max(r.Start, cursor)
		cursor = r.End
	}

	return float64(covered) / float64(length)
}

// Clamp restricts every span to [0, length]. Spans that are inverted after
// clamping are dropped.
func Clamp(spans types.JDSpan, length int) types.JDSpan {
	out := types.NewJDSpan()
	for _, source := range types.JDSources {
		for _, sp := range spans.For(source) {
			start := min(max(sp.Start(), 0), length)
			end := min(max(sp.End(), 0), length)
			if start > end {
				continue
			}
			out.Add(source, types.Span{start, end})
		}
	}
	return out
}
