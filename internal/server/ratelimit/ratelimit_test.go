package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(NewConfig(10, 0, nil))
	defer limiter.Stop()

	clientID := "127.0.0.1"

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow(clientID, "/api/jobs", "GET")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected %d remaining, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow(clientID, "/api/jobs", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected positive RetryAfter when denied")
	}
	if !info.ResetTime.After(time.Now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_DefaultBucketIsSharedAcrossPaths(t *testing.T) {
	limiter := NewLimiter(NewConfig(2, 0, nil))
	defer limiter.Stop()

	limiter.Allow("c", "/api/jobs", "GET")
	limiter.Allow("c", "/api/resume/master", "GET")

	if allowed, _ := limiter.Allow("c", "/api/outreach/contacts", "POST"); allowed {
		t.Error("Expected third request on any path to be denied")
	}
	if allowed, _ := limiter.Allow("other", "/api/jobs", "GET"); !allowed {
		t.Error("Expected a different client to have its own bucket")
	}
}

func TestLimiter_LLMEndpoints(t *testing.T) {
	limiter := NewLimiter(NewConfig(100, 2, nil))
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", "/api/jobs/analyze-jd", "POST")
		if !allowed {
			t.Fatalf("Expected LLM request %d to be allowed", i+1)
		}
		if info.Limit != 2 {
			t.Errorf("Expected LLM limit 2, got %d", info.Limit)
		}
	}

	allowed, info := limiter.Allow("c", "/api/jobs/analyze-jd", "POST")
	if allowed {
		t.Error("Expected third LLM request to be denied")
	}
	// One token per 30 minutes.
	if info.RetryAfter < 29*time.Minute {
		t.Errorf("Expected RetryAfter near 30m, got %v", info.RetryAfter)
	}

	if allowed, _ := limiter.Allow("c", "/api/cover-letter/generate", "POST"); !allowed {
		t.Error("Expected a different LLM endpoint to have its own bucket")
	}
	if allowed, _ := limiter.Allow("c", "/api/jobs", "GET"); !allowed {
		t.Error("Expected ordinary endpoints to be unaffected")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(NewConfig(1, 0, []string{" 10.0.0.1 ", ""}))
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", "/api/jobs", "GET"); !allowed {
			t.Fatalf("Expected whitelisted request %d to be allowed", i+1)
		}
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(NewConfig(0, 10, nil))
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("c", "/api/jobs", "GET")
		if !allowed {
			t.Fatal("Expected all requests to be allowed when disabled")
		}
		if info.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", info.Limit)
		}
	}
}

func TestLimiter_HealthAndPreflightUnlimited(t *testing.T) {
	limiter := NewLimiter(NewConfig(1, 0, nil))
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		if allowed, _ := limiter.Allow("c", "/health", "GET"); !allowed {
			t.Fatal("Expected health checks to be unlimited")
		}
		if allowed, _ := limiter.Allow("c", "/api/jobs", "OPTIONS"); !allowed {
			t.Fatal("Expected preflight requests to be unlimited")
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(NewConfig(50, 0, nil))
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("c", "/api/jobs", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 50 {
		t.Errorf("Expected exactly 50 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter := NewLimiter(NewConfig(10, 0, nil))
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/api/jobs", "GET")
	}

	limiter.cleanupBuckets(time.Now().Add(-time.Hour))
	if got := len(limiter.buckets); got != 3 {
		t.Errorf("Expected recent buckets to be kept, got %d", got)
	}

	limiter.cleanupBuckets(time.Now().Add(time.Second))
	if got := len(limiter.buckets); got != 0 {
		t.Errorf("Expected stale buckets to be removed, got %d", got)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/jobs/analyze-jd", Method: "POST", Limit: 5},
		{Path: "/api/outreach/", Method: "POST", Limit: 7},
	}

	tests := []struct {
		path   string
		method string
		limit  int
		found  bool
	}{
		{"/api/jobs/analyze-jd", "POST", 5, true},
		{"/api/jobs/analyze-jd", "GET", 0, false},
		{"/api/outreach/generate-dm", "POST", 7, true},
		{"/api/jobs", "POST", 0, false},
		{"/health", "GET", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if (got != nil) != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, got)
			}
			if got != nil && got.Limit != tt.limit {
				t.Errorf("Expected limit %d, got %d", tt.limit, got.Limit)
			}
		})
	}
}
