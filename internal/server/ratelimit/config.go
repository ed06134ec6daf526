package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds the service limits: perMinute requests per client for every
// endpoint, and llmPerHour for endpoints that call the language model.
// A non-positive perMinute disables limiting.
func NewConfig(perMinute, llmPerHour int, whitelist []string) *Config {
	if perMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    perMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       parseIPList(whitelist),
		EndpointConfigs: LLMEndpointConfigs(llmPerHour),
	}
}

// LLMEndpointConfigs returns the limits for endpoints backed by the language model.
func LLMEndpointConfigs(perHour int) []EndpointConfig {
	if perHour <= 0 {
		return nil
	}
	return []EndpointConfig{
		{Path: "/api/jobs/analyze-jd", Method: "POST", Limit: perHour, Window: time.Hour},
		{Path: "/api/cover-letter/generate", Method: "POST", Limit: perHour, Window: time.Hour},
		{Path: "/api/outreach/generate-dm", Method: "POST", Limit: perHour, Window: time.Hour},
	}
}

func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
