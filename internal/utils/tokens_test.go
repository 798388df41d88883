package utils

import (
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	if got := CountTokens(""); got != 0 {
		t.Fatalf("empty = %d", got)
	}
	if got := CountTokens("ab"); got != 1 {
		t.Fatalf("short text should count as at least 1 token, got %d", got)
	}
	if got := CountTokens(strings.Repeat("a", 400)); got != 100 {
		t.Fatalf("400 chars = %d tokens, want 100", got)
	}
}
