// Package config provides configuration loading and validation for the API
// server, the compile worker and the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environments recognized by IsProduction.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Typesetters supported by the compile worker.
const (
	TypesetterTectonic = "tectonic"
	TypesetterPDFLaTeX = "pdflatex"
)

// Config holds process configuration read from the environment.
// Fields needed only by one command are checked by RequireAPI or RequireWorker.
type Config struct {
	// Stores
	DatabaseURL string // PostgreSQL connection URL
	RedisURL    string // Redis URL for the compile queue

	// External services
	GeminiAPIKey       string // Gemini API key; empty disables LLM features
	SupabaseURL        string // Supabase project URL for storage
	SupabaseServiceKey string // Supabase service role key
	StorageBucket      string // Storage bucket for compiled PDFs

	// HTTP
	Environment         string
	CORSOrigins         []string
	RateLimitPerMinute  int // General requests per client per minute
	RateLimitLLMPerHour int // LLM-backed requests per client per hour

	// Worker
	Typesetter        string        // tectonic or pdflatex
	WorkerConcurrency int           // Number of compile consumers
	CompileTimeout    time.Duration // Bound on a single typesetter run

	LogLevel string
	JWT      *JWTConfig // nil when SUPABASE_JWT_SECRET is unset
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		SupabaseURL:        strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		StorageBucket:      getEnv("STORAGE_BUCKET", "resumes"),
		Environment:        getEnv("ENVIRONMENT", EnvDevelopment),
		CORSOrigins:        parseList(getEnv("CORS_ORIGINS", "*")),
		Typesetter:         getEnv("TYPESETTER", TypesetterTectonic),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitLLMPerHour, err = getEnvInt("RATE_LIMIT_LLM_PER_HOUR", 20); err != nil {
		return nil, err
	}
	if cfg.WorkerConcurrency, err = getEnvInt("WORKER_CONCURRENCY", 2); err != nil {
		return nil, err
	}
	if cfg.CompileTimeout, err = getEnvDuration("COMPILE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if os.Getenv("SUPABASE_JWT_SECRET") != "" {
		if cfg.JWT, err = NewJWTConfig(); err != nil {
			return nil, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got: %d", c.RateLimitPerMinute)
	}
	if c.RateLimitLLMPerHour < 1 {
		return fmt.Errorf("RATE_LIMIT_LLM_PER_HOUR must be at least 1, got: %d", c.RateLimitLLMPerHour)
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got: %d", c.WorkerConcurrency)
	}
	if c.CompileTimeout <= 0 {
		return fmt.Errorf("COMPILE_TIMEOUT must be positive, got: %s", c.CompileTimeout)
	}
	switch c.Typesetter {
	case TypesetterTectonic, TypesetterPDFLaTeX:
	default:
		return fmt.Errorf("TYPESETTER must be %q or %q, got: %q", TypesetterTectonic, TypesetterPDFLaTeX, c.Typesetter)
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// StorageEnabled reports whether blob storage credentials are present.
func (c *Config) StorageEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// RequireAPI checks the fields the HTTP server cannot run without.
func (c *Config) RequireAPI() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWT == nil {
		missing = append(missing, "SUPABASE_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireWorker checks the fields the compile worker cannot run without.
func (c *Config) RequireWorker() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}
	if !c.StorageEnabled() {
		missing = append(missing, "SUPABASE_URL", "SUPABASE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}

// parseList splits a comma-separated value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
