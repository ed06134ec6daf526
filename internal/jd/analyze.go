package jd

import (
	"context"
	"time"

	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/types"
)

// Analyzer runs the full job description pipeline.
type Analyzer struct {
	segmenter *Segmenter
	extractor *Extractor
	logger    *logging.Logger
}

// NewAnalyzer wires a segmenter around oracle (which may be nil) with the
// default taxonomy and recognizer.
func NewAnalyzer(oracle SpanOracle, logger *logging.Logger) *Analyzer {
	logger = logging.OrNop(logger)
	return &Analyzer{
		segmenter: NewSegmenter(oracle, logger),
		extractor: NewExtractor(nil, nil),
		logger:    logger,
	}
}

// NewAnalyzerWith builds an analyzer from explicit stages.
func NewAnalyzerWith(segmenter *Segmenter, extractor *Extractor, logger *logging.Logger) *Analyzer {
	return &Analyzer{segmenter: segmenter, extractor: extractor, logger: logging.OrNop(logger)}
}

// Analyze segments text, extracts and ranks skills, and returns the top coursework.
// It never fails; oracle problems degrade to the rule-based spans.
func (a *Analyzer) Analyze(ctx context.Context, text string) types.Analysis {
	start := time.Now()

	spans := a.segmenter.Segment(ctx, text)
	skills := ScoreAndRank(a.extractor.Extract(text, spans), text)
	coursework := TopCoursework(ExtractCoursework(text), MaxCoursework)

	a.logger.Debug("job description analyzed",
		"length", len(text),
		"skills", len(skills),
		"coursework", len(coursework),
		"duration", time.Since(start),
	)

	return types.Analysis{
		Spans:      spans,
		Skills:     skills,
		Coursework: coursework,
	}
}
