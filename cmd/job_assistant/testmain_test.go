package main

import (
	"os"
	"testing"
)

// TestMain clears settings that would make tool commands call external services.
func TestMain(m *testing.M) {
	_ = os.Unsetenv("GEMINI_API_KEY")
	os.Exit(m.Run())
}
