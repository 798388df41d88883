package agent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fathomhq/fathom/internal/ai"
)

func TestIsQuotaErr(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&ai.RateLimitError{APIError: &ai.APIError{StatusCode: 429}}, true},
		{&ai.QuotaExceededError{APIError: &ai.APIError{StatusCode: 402, Message: "quota exceeded"}}, true},
		{errors.New("RESOURCE_EXHAUSTED: daily limit"), true},
		{errors.New("HTTP 429 Too Many Requests"), true},
		{fmt.Errorf("wrapped: %w", errors.New("rate limit reached for model")), true},
		{errors.New("connection refused"), false},
		{&ai.AuthError{APIError: &ai.APIError{StatusCode: 401, Message: "bad key"}}, false},
	}
	for _, tc := range cases {
		if got := isQuotaErr(tc.err); got != tc.want {
			t.Errorf("isQuotaErr(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
