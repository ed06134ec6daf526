package jd

import (
	"context"
	"encoding/json"

	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/prompts"
	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
)

// LLMOracle asks a language model for span offsets.
type LLMOracle struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMOracle creates an oracle backed by client.
func NewLLMOracle(client llm.Client) *LLMOracle {
	return &LLMOracle{client: client, tier: llm.TierLite}
}

// Spans implements SpanOracle. It neither retries nor applies its own timeout;
// callers bound the call through ctx.
func (o *LLMOracle) Spans(ctx context.Context, text string) (types.JDSpan, error) {
	prompt, err := prompts.Render(prompts.SegmentationFile, "segment-jd", map[string]string{
		"JobDescription": text,
	})
	if err != nil {
		return types.JDSpan{}, &OracleError{Message: "failed to build prompt", Cause: err}
	}

	raw, err := o.client.Generate(ctx, llm.Request{
		Prompt:          prompt,
		Tier:            o.tier,
		Temperature:     llm.ExtractionTemperature,
		MaxOutputTokens: 500,
		JSON:            true,
	})
	if err != nil {
		return types.JDSpan{}, &OracleError{Message: "generation failed", Cause: err}
	}

	return DecodeSpans(raw)
}

// DecodeSpans parses an oracle payload: a JSON object with requirements,
// responsibilities and nice_to_haves, each a list of [start, end] integer pairs,
// optionally wrapped in a markdown code fence.
func DecodeSpans(raw string) (types.JDSpan, error) {
	payload := llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.JDSpans, payload); err != nil {
		return types.JDSpan{}, &PayloadError{Message: "payload does not match span schema", Payload: payload, Cause: err}
	}

	spans := types.NewJDSpan()
	if err := json.Unmarshal([]byte(payload), &spans); err != nil {
		return types.JDSpan{}, &PayloadError{Message: "failed to decode payload", Payload: payload, Cause: err}
	}

	return spans, nil
}
