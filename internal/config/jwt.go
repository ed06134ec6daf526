package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds configuration for validating Supabase-issued access tokens.
type JWTConfig struct {
	Secret string
	// LeewaySeconds tolerates clock skew when checking exp and nbf.
	LeewaySeconds int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads SUPABASE_JWT_SECRET (required) and JWT_LEEWAY_SECONDS (default: 30).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is required but not set")
	}

	leewayStr := os.Getenv("JWT_LEEWAY_SECONDS")
	if leewayStr == "" {
		leewayStr = "30" // default
	}

	leeway, err := strconv.Atoi(leewayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_LEEWAY_SECONDS: %v", err)
	}

	config := &JWTConfig{
		Secret:        secret,
		LeewaySeconds: leeway,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET cannot be empty")
	}
	if c.LeewaySeconds < 0 || c.LeewaySeconds > 300 {
		return fmt.Errorf("JWT_LEEWAY_SECONDS must be between 0 and 300, got: %d", c.LeewaySeconds)
	}
	return nil
}
