// Package llm provides the LLM client used for span segmentation and drafting.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for structured extraction such as span segmentation
	TierLite ModelTier = "lite"
	// TierStandard is for short drafting: outreach messages, cover letters
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the only supported provider.
const ProviderGemini Provider = "gemini"

// Default sampling temperatures.
const (
	// ExtractionTemperature keeps structured output stable.
	ExtractionTemperature float32 = 0.1
	// DraftingTemperature is used for prose.
	DraftingTemperature float32 = 0.7
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given tier, falling back to standard then lite.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
